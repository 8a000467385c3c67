package parser

import "strings"

// editedPlaceholders are bodies that replace the text of an edited message.
// Compared against the lower-cased, trimmed body.
var editedPlaceholders = map[string]bool{
	"<mensagem editada>":          true,
	"mensagem editada":            true,
	"<esta mensagem foi editada>": true,
	"esta mensagem foi editada":   true,
	"<this message was edited>":   true,
	"this message was edited":     true,
	"<message edited>":            true,
	"message edited":              true,
	"<essa mensagem foi editada>": true,
}

// systemPhrases maps lower-cased event phrases to the kind of notice they signal.
// Portuguese first, then English.
var systemPhrases = []struct {
	phrase string
	kind   SystemKind
}{
	{"entrou usando o link", SystemKindMembership},
	{"entrou no grupo", SystemKindMembership},
	{"adicionou", SystemKindMembership},
	{"removeu", SystemKindMembership},
	{"saiu", SystemKindMembership},
	{"criou o grupo", SystemKindMetadata},
	{"mudou o nome", SystemKindMetadata},
	{"mudou o assunto", SystemKindMetadata},
	{"mudou a descrição", SystemKindMetadata},
	{"apagou a descrição", SystemKindMetadata},
	{"mudou a imagem", SystemKindMetadata},
	{"mudou o ícone", SystemKindMetadata},
	{"apagou a imagem", SystemKindMetadata},
	{"mudou para", SystemKindMetadata},
	{"mudou as configurações", SystemKindAdmin},
	{"agora é admin", SystemKindAdmin},
	{"não é mais admin", SystemKindAdmin},
	{"mensagens temporárias", SystemKindDisappearing},
	{"joined using this group's invite link", SystemKindMembership},
	{"joined using this group", SystemKindMembership},
	{"joined", SystemKindMembership},
	{"added", SystemKindMembership},
	{"removed", SystemKindMembership},
	{"left", SystemKindMembership},
	{"created group", SystemKindMetadata},
	{"changed the subject", SystemKindMetadata},
	{"changed the group description", SystemKindMetadata},
	{"deleted the group description", SystemKindMetadata},
	{"changed this group's icon", SystemKindMetadata},
	{"changed the group icon", SystemKindMetadata},
	{"deleted this group's icon", SystemKindMetadata},
	{"changed their phone number", SystemKindMetadata},
	{"changed to", SystemKindMetadata},
	{"changed this group's settings", SystemKindAdmin},
	{"changed the settings", SystemKindAdmin},
	{"you're now an admin", SystemKindAdmin},
	{"is now an admin", SystemKindAdmin},
	{"no longer an admin", SystemKindAdmin},
	{"disappearing messages", SystemKindDisappearing},
}

// encryptionBanners identify the export's leading end-to-end encryption notice.
var encryptionBanners = []string{
	"criptografia de ponta a ponta",
	"end-to-end encrypted",
}

// IsEncryptionBanner reports whether the line is the encryption notice.
func IsEncryptionBanner(line string) bool {
	lower := strings.ToLower(line)
	for _, b := range encryptionBanners {
		if strings.Contains(lower, b) {
			return true
		}
	}
	return false
}

// ClassifySystem decides whether a matched head is a system message.
// An edit placeholder is system even with a sender. A missing sender is
// system on its own; the phrase list only refines which kind.
func ClassifySystem(body string, hasSender bool) (bool, SystemKind) {
	lower := strings.ToLower(strings.TrimSpace(body))
	if editedPlaceholders[lower] {
		return true, SystemKindEdited
	}
	if hasSender {
		return false, SystemKindNone
	}
	for _, p := range systemPhrases {
		if strings.Contains(lower, p.phrase) {
			return true, p.kind
		}
	}
	return true, SystemKindUnknown
}
