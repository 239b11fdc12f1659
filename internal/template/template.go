package template

import "strings"

// DefaultTemplate is used until the operator saves their own.
const DefaultTemplate = "Prezado {nome_responsavel}, informamos que o aluno {nome_aluno} esteve ausente na data de hoje."

const (
	placeholderStudent  = "{nome_aluno}"
	placeholderGuardian = "{nome_responsavel}"
)

// Render substitutes every occurrence of the recognized placeholders.
// Anything else in the template, including unrecognized {placeholders},
// passes through verbatim.
func Render(tmpl, studentName, guardianName string) string {
	return strings.NewReplacer(
		placeholderStudent, studentName,
		placeholderGuardian, guardianName,
	).Replace(tmpl)
}
