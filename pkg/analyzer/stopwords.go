package analyzer

// defaultStopWords are Brazilian Portuguese function words and chat filler
// excluded from word and expression statistics.
var defaultStopWords = []string{
	"a", "à", "agora", "aí", "ainda", "alguém", "algum", "alguma", "algumas", "alguns",
	"ali", "ao", "aos", "aquela", "aquelas", "aquele", "aqueles", "aqui", "aquilo", "as",
	"às", "até", "bem", "cada", "coisa", "com", "como", "contra", "da", "daquele",
	"daqueles", "das", "de", "dela", "delas", "dele", "deles", "depois", "desde", "dessa",
	"dessas", "desse", "desses", "desta", "destas", "deste", "destes", "deu", "dia", "do",
	"dos", "e", "é", "ela", "elas", "ele", "eles", "em", "entre", "era",
	"eram", "essa", "essas", "esse", "esses", "esta", "está", "estamos", "estão", "estar",
	"estas", "estava", "estavam", "este", "esteja", "estes", "estou", "eu", "faz", "fazer",
	"foi", "foram", "fosse", "fui", "guys", "há", "hoje", "isso", "isto", "já",
	"la", "lá", "lhe", "lhes", "lo", "mais", "mas", "me", "mesmo", "meu",
	"meus", "minha", "minhas", "muito", "muita", "muitas", "muitos", "na", "não", "nas",
	"nem", "nessa", "nesse", "nesta", "neste", "no", "nos", "nós", "nossa", "nossas",
	"nosso", "nossos", "num", "numa", "né", "o", "oi", "ok", "olá", "onde",
	"os", "ou", "para", "pela", "pelas", "pelo", "pelos", "pode", "porque", "por",
	"pois", "pra", "pras", "pro", "pros", "qual", "quando", "que", "quem", "quer",
	"se", "sei", "sem", "ser", "será", "seu", "seus", "sim", "só", "sobre",
	"sua", "suas", "também", "tá", "tão", "te", "tem", "têm", "tenho", "ter",
	"teu", "teus", "ti", "tinha", "tipo", "toda", "todas", "todo", "todos", "tu",
	"tua", "tuas", "tudo", "um", "uma", "umas", "uns", "vai", "vamos", "você",
	"vocês", "vou", "vc", "vcs", "tbm", "tb", "q", "pq", "cê", "então",
	"assim", "aqui", "acho", "ele", "estive", "esteve", "fica", "ficou", "sua", "seja",
	"sendo", "sido", "tava", "tô", "vem", "ver", "vez", "vezes", "lo", "qualquer",
	"nada", "nenhum", "nenhuma", "outra", "outras", "outro", "outros", "pouco", "quase", "sempre",
}

func stopWordSet(extra []string, fold func(string) string) map[string]bool {
	set := make(map[string]bool, len(defaultStopWords)+len(extra))
	for _, w := range defaultStopWords {
		set[fold(w)] = true
	}
	for _, w := range extra {
		set[fold(w)] = true
	}
	return set
}
