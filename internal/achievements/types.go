package achievements

// TypeConfig describes a server-side achievement type. These values are
// defined in code, not in the database, and must stay in lockstep with
// the backend's registered types: the type string plus the XP reward is
// the integration contract for the unlock endpoint.
type TypeConfig struct {
	Name        string
	Description string
	XPReward    int
	Icon        string
}

// TypeConfigs mirrors the backend's achievement-type registry.
var TypeConfigs = map[string]TypeConfig{
	"primeira_ligacao": {
		Name:        "Primeira Ligação",
		Description: "Complete sua primeira ligação",
		XPReward:    25,
		Icon:        "⚡",
	},
	"dedicacao": {
		Name:        "Dedicação",
		Description: "Realize mais de 50 ligações",
		XPReward:    100,
		Icon:        "⭐",
	},
	"veterano": {
		Name:        "Veterano",
		Description: "Realize mais de 100 ligações",
		XPReward:    250,
		Icon:        "🏆",
	},
	"perfeccionista": {
		Name:        "Perfeccionista",
		Description: "Alcance 100% de pontuação",
		XPReward:    100,
		Icon:        "🎯",
	},
	"consistencia": {
		Name:        "Consistência",
		Description: "Média acima de 80% por 7 dias",
		XPReward:    200,
		Icon:        "📈",
	},
	"excelencia": {
		Name:        "Excelência",
		Description: "Média acima de 90% por 30 dias",
		XPReward:    500,
		Icon:        "🌟",
	},
	"primeira_semana": {
		Name:        "Primeira Semana",
		Description: "Complete 7 ligações em uma semana",
		XPReward:    150,
		Icon:        "📅",
	},
	"maratonista": {
		Name:        "Maratonista",
		Description: "Complete 10 ligações em um dia",
		XPReward:    300,
		Icon:        "🏃",
	},
	"jogador_equipe": {
		Name:        "Jogador de Equipe",
		Description: "Complete 100 ligações em equipe",
		XPReward:    200,
		Icon:        "👥",
	},
	"mentor": {
		Name:        "Mentor",
		Description: "Ajude 5 colegas a melhorar",
		XPReward:    400,
		Icon:        "👥",
	},
	"campeao": {
		Name:        "Campeão",
		Description: "Seja o melhor do mês",
		XPReward:    1000,
		Icon:        "🏆",
	},
}

// ServerTypeByID maps local catalog ids to backend achievement types.
// Hand-maintained; kept exactly as deployed. Note that streak_3 and
// streak_5 both map to primeira_semana, and perfect_week/improvement
// reuse excelencia/consistencia, so one local unlock can satisfy
// another's server record. Known ambiguity, deliberately not corrected.
var ServerTypeByID = map[string]string{
	"first_call": "primeira_ligacao",
	"calls_10":   "dedicacao_inicial",
	"calls_50":   "dedicacao",
	"calls_100":  "veterano",

	"perfect_call":     "perfeccionista",
	"high_performance": "excelencia",
	"consistency":      "consistencia",

	"streak_3": "primeira_semana",
	"streak_5": "primeira_semana",

	"perfect_week": "excelencia",
	"improvement":  "consistencia",
}
