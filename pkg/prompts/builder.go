package prompts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mkurosawa/mystery-engine/pkg/scenario"
	"github.com/mkurosawa/mystery-engine/pkg/state"
)

// Builder assembles the system instruction for one interrogation turn
// using a fluent interface. Building is a pure function of the
// character, the scenario, and the current game state.
type Builder struct {
	character *scenario.Character
	scenario  *scenario.Scenario
	gs        *state.GameState
}

// New creates a new prompt builder.
func New() *Builder {
	return &Builder{}
}

// WithCharacter sets the interrogated character.
func (b *Builder) WithCharacter(c *scenario.Character) *Builder {
	b.character = c
	return b
}

// WithScenario sets the loaded scenario.
func (b *Builder) WithScenario(s *scenario.Scenario) *Builder {
	b.scenario = s
	return b
}

// WithGameState sets the session state (owned evidence, difficulty).
func (b *Builder) WithGameState(gs *state.GameState) *Builder {
	b.gs = gs
	return b
}

// Build constructs the final system instruction.
func (b *Builder) Build() (string, error) {
	if b.character == nil {
		return "", fmt.Errorf("character is required")
	}
	if b.scenario == nil {
		return "", fmt.Errorf("scenario is required")
	}
	if b.gs == nil {
		return "", fmt.Errorf("gamestate is required")
	}

	var sb strings.Builder
	sb.WriteString(BaseDirective)

	b.addCaseFacts(&sb)
	b.addIdentity(&sb)
	b.addSecrets(&sb)
	b.addKnownEvidence(&sb)
	b.addEvidenceReactions(&sb)

	sb.WriteString("\n\n" + sectionConduct + "\n")
	sb.WriteString(DeflectionDirective)

	sb.WriteString("\n\n" + sectionFormat + "\n")
	sb.WriteString(FormatContract)

	return sb.String(), nil
}

func (b *Builder) addCaseFacts(sb *strings.Builder) {
	sb.WriteString("\n\n" + sectionCaseFacts + "\n")
	sb.WriteString(b.scenario.Case.Outline)
	for _, fact := range b.scenario.Case.CommonFacts {
		sb.WriteString("\n- " + fact)
	}
}

func (b *Builder) addIdentity(sb *strings.Builder) {
	c := b.character
	sb.WriteString("\n\n" + sectionIdentity + "\n")
	sb.WriteString(fmt.Sprintf("You are %s, %s", c.Name, c.Role))
	if c.Age > 0 {
		sb.WriteString(fmt.Sprintf(", age %d", c.Age))
	}
	sb.WriteString(".")

	if len(c.Personality) > 0 {
		sb.WriteString("\nPersonality: " + strings.Join(c.Personality, "; "))
	}
	if c.TalkStyle != "" {
		sb.WriteString("\nManner of speech: " + c.TalkStyle)
	}
	if len(c.FamilyRelation) > 0 {
		sb.WriteString("\nFamily:")
		for _, name := range sortedKeys(c.FamilyRelation) {
			sb.WriteString(fmt.Sprintf("\n- %s: %s", name, c.FamilyRelation[name]))
		}
	}
	if c.Background != "" {
		sb.WriteString("\nBackground: " + c.Background)
	}
}

func (b *Builder) addSecrets(sb *strings.Builder) {
	c := b.character
	if len(c.Secrets) == 0 && len(c.ForbiddenReveals) == 0 {
		return
	}
	sb.WriteString("\n\n" + sectionSecrets + "\n")
	for _, s := range c.Secrets {
		sb.WriteString("- " + s + "\n")
	}
	if len(c.ForbiddenReveals) > 0 {
		sb.WriteString("You must never voluntarily reveal the following:\n")
		for _, s := range c.ForbiddenReveals {
			sb.WriteString("- " + s + "\n")
		}
	}
}

// addKnownEvidence renders the player's owned evidence in discovery
// order so the character can react to what the detective actually holds.
func (b *Builder) addKnownEvidence(sb *strings.Builder) {
	sb.WriteString("\n\n" + sectionEvidence + "\n")
	if len(b.gs.Evidences) == 0 {
		sb.WriteString("(none yet)")
		return
	}
	for _, id := range b.gs.Evidences {
		ev := b.scenario.EvidenceByID(id)
		if ev == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("- %s: %s\n", ev.Name, ev.Description))
	}
}

func (b *Builder) addEvidenceReactions(sb *strings.Builder) {
	c := b.character
	if len(c.EvidenceReactions) == 0 {
		return
	}
	sb.WriteString("\n\n" + sectionReactions + "\n")
	for _, id := range sortedKeys(c.EvidenceReactions) {
		label := id
		if ev := b.scenario.EvidenceByID(id); ev != nil {
			label = ev.Name
		}
		sb.WriteString(fmt.Sprintf("- %s: %s\n", label, c.EvidenceReactions[id]))
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// BuildInstruction is a convenience for the common case.
func BuildInstruction(c *scenario.Character, s *scenario.Scenario, gs *state.GameState) (string, error) {
	return New().
		WithCharacter(c).
		WithScenario(s).
		WithGameState(gs).
		Build()
}
