package generator

import (
	"strings"

	"vn.io.arda/contos/internal/domain"
)

var themePrompts = map[domain.Theme]string{
	domain.ThemeAdventure:  "Uma emocionante aventura cheia de descobertas",
	domain.ThemeFantasy:    "Um mundo mágico com criaturas fantásticas",
	domain.ThemeAnimals:    "Uma história com animais falantes e amigáveis",
	domain.ThemeFriendship: "Uma história sobre a importância da amizade",
	domain.ThemeNature:     "Uma história sobre a natureza e o meio ambiente",
	domain.ThemeSpace:      "Uma aventura espacial entre planetas e estrelas",
	domain.ThemeFairytale:  "Um conto de fadas clássico",
	domain.ThemeMystery:    "Um mistério divertido para resolver",
}

var ageGuidelines = map[domain.AgeGroup]string{
	domain.AgeGroupPreschool: "Use frases curtas e simples. Vocabulário básico. Muita repetição. Máximo 300 palavras.",
	domain.AgeGroupEarly:     "Frases um pouco mais complexas. Introduza novas palavras. Máximo 500 palavras.",
	domain.AgeGroupMiddle:    "Linguagem mais elaborada. Pode incluir moral da história. Máximo 800 palavras.",
}

const systemPromptHeader = `Você é um contador de histórias infantis profissional.
Crie histórias encantadoras, educativas e apropriadas para crianças.
Sempre escreva em português brasileiro.
`

const systemPromptRules = `

A história deve ser:
- Positiva e edificante
- Sem violência ou conteúdo assustador
- Com uma lição ou moral sutil
- Envolvente e divertida`

const responseFormat = `Responda EXATAMENTE no seguinte formato JSON (sem markdown):
{"title": "Título da História", "content": "Conteúdo completo da história..."}`

// systemPrompt is fixed per age group.
func systemPrompt(age domain.AgeGroup) string {
	return systemPromptHeader + ageGuidelines[age] + systemPromptRules
}

// userPrompt describes the requested story. Unknown themes are passed through verbatim.
func userPrompt(in domain.GenerateStoryInput) string {
	theme, ok := themePrompts[in.Theme]
	if !ok {
		theme = string(in.Theme)
	}

	var b strings.Builder
	b.WriteString("Crie uma história infantil com o tema: ")
	b.WriteString(theme)
	b.WriteString("\n")
	if in.CharacterName != "" {
		b.WriteString("O personagem principal se chama: ")
		b.WriteString(in.CharacterName)
	}
	b.WriteString("\n\nContexto adicional do usuário: ")
	b.WriteString(in.Prompt)
	b.WriteString("\n\n")
	b.WriteString(responseFormat)
	return b.String()
}
