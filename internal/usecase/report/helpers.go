package report

import (
	"strings"

	"github.com/futig/report-engine/internal/entity"
)

// MergeFragments unions fragment lists preserving first-seen order. The
// merge is idempotent and the result contains no duplicate ids.
func MergeFragments(lists ...[]entity.Fragment) []entity.Fragment {
	seen := make(map[string]bool)
	var out []entity.Fragment
	for _, list := range lists {
		for _, frag := range list {
			if seen[frag.ID] {
				continue
			}
			seen[frag.ID] = true
			out = append(out, frag)
		}
	}
	return out
}

// compositeQuery forms the part-specific search string: the original
// question plus the part's title and focus keywords.
func compositeQuery(question string, part entity.PartPlan) string {
	var sb strings.Builder
	sb.WriteString(question)
	sb.WriteString(" ")
	sb.WriteString(part.Title)
	for _, kw := range part.Keywords {
		sb.WriteString(" ")
		sb.WriteString(kw)
	}
	return sb.String()
}

// messageSet holds the localized substitute texts returned in place of
// generated content for recoverable conditions.
type messageSet struct {
	NoContext        string
	EmptyGeneration  string
	TruncationNote   string
	EmptyQuestion    string
	InfeasibleBudget string
}

var messagesByLanguage = map[string]messageSet{
	"en": {
		NoContext:        "No relevant information was found in the document corpus for this section.",
		EmptyGeneration:  "The generation service returned no text for this section.",
		TruncationNote:   "\n\n[Note: this section was truncated because it reached the output length limit.]",
		EmptyQuestion:    "The query text is empty. Please provide a question.",
		InfeasibleBudget: "The requested report length is not feasible: the per-section token target exceeds the model output limit.",
	},
	"ru": {
		NoContext:        "В корпусе документов не найдено информации, относящейся к этому разделу.",
		EmptyGeneration:  "Сервис генерации не вернул текст для этого раздела.",
		TruncationNote:   "\n\n[Примечание: раздел был обрезан из-за достижения лимита длины вывода.]",
		EmptyQuestion:    "Текст запроса пуст. Пожалуйста, сформулируйте вопрос.",
		InfeasibleBudget: "Запрошенная длина отчёта недостижима: целевой размер раздела превышает лимит вывода модели.",
	},
}

// messagesFor returns the message set for a language tag, falling back to
// English.
func messagesFor(language string) messageSet {
	lang := strings.ToLower(strings.TrimSpace(language))
	if idx := strings.IndexAny(lang, "-_"); idx > 0 {
		lang = lang[:idx]
	}
	if set, ok := messagesByLanguage[lang]; ok {
		return set
	}
	return messagesByLanguage["en"]
}
