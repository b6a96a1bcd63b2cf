package navigator

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode"

	"github.com/wsb360/aiclassify/internal/config"
	"github.com/wsb360/aiclassify/internal/core/model"
	"github.com/wsb360/aiclassify/internal/llm"
	"github.com/wsb360/aiclassify/internal/taxonomy"
)

var answerPattern = regexp.MustCompile(`\{"answer"\s*:\s*"(.*?)"\}`)

// Navigator walks the taxonomy tree top-down, asking the reasoning oracle
// to pick one candidate per level.
type Navigator struct {
	LLM     llm.LLMClient
	Prompts config.ClassifyPrompts
}

func New(llmClient llm.LLMClient, prompts config.ClassifyPrompts) *Navigator {
	return &Navigator{
		LLM:     llmClient,
		Prompts: prompts,
	}
}

// Classify returns the category names chosen level by level, possibly
// empty. It never returns an error: an oracle failure or an unmatchable
// answer truncates the path at that level.
func (n *Navigator) Classify(ctx context.Context, tree *taxonomy.Tree, itemName string) []string {
	if tree.Empty() {
		return nil
	}

	var path []string
	candidates := tree.Level1()

	for level := 1; level <= 3 && len(candidates) > 0; level++ {
		node := n.classifyLevel(ctx, itemName, path, candidates, level)
		if node == nil {
			break
		}
		path = append(path, node.Name)
		candidates = taxonomy.Children(node)
	}

	return path
}

func (n *Navigator) classifyLevel(ctx context.Context, itemName string, parentPath []string, candidates []*model.CategoryNode, level int) *model.CategoryNode {
	prompt := n.renderPrompt(level, itemName, parentPath, candidates)

	response, err := n.LLM.Generate(ctx, prompt)
	if err != nil {
		log.Printf("Level %d oracle call failed for %q: %v", level, itemName, err)
		return nil
	}

	answer, ok := extractAnswer(response)
	if !ok {
		log.Printf("Level %d response carried no tagged answer for %q: %q", level, itemName, response)
		return nil
	}
	if cannotDetermine(answer) {
		return nil
	}

	node := resolve(answer, candidates)
	if node == nil {
		log.Printf("Level %d answer %q matched no candidate for %q", level, answer, itemName)
	}
	return node
}

func (n *Navigator) renderPrompt(level int, itemName string, parentPath []string, candidates []*model.CategoryNode) string {
	var lines []string
	for _, c := range candidates {
		lines = append(lines, "- "+c.Name)
	}
	categoriesText := strings.Join(lines, "\n")

	switch level {
	case 1:
		tmpl := n.Prompts.Level1
		if tmpl == "" {
			tmpl = defaultLevel1Prompt
		}
		return fmt.Sprintf(tmpl, itemName, categoriesText)
	case 2:
		tmpl := n.Prompts.Level2
		if tmpl == "" {
			tmpl = defaultLevel2Prompt
		}
		parent := model.JoinPath(parentPath)
		return fmt.Sprintf(tmpl, parent, itemName, parent, categoriesText)
	default:
		tmpl := n.Prompts.Level3
		if tmpl == "" {
			tmpl = defaultLevel3Prompt
		}
		parent := model.JoinPath(parentPath)
		return fmt.Sprintf(tmpl, parent, itemName, parent, categoriesText)
	}
}

// extractAnswer pulls the first {"answer":"..."} tag out of the raw
// response text.
func extractAnswer(response string) (string, bool) {
	m := answerPattern.FindStringSubmatch(response)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func cannotDetermine(answer string) bool {
	return strings.Contains(answer, "无法确定") || strings.Contains(answer, "不确定")
}

// resolve maps a free-text answer to a candidate node via a fixed cascade:
// exact equality, containment either direction, punctuation/whitespace-
// stripped containment, then case-insensitive equality or containment.
// Candidates arrive sorted by code, so first-match ties are reproducible.
func resolve(answer string, candidates []*model.CategoryNode) *model.CategoryNode {
	for _, c := range candidates {
		if c.Name == answer {
			return c
		}
	}

	for _, c := range candidates {
		if strings.Contains(answer, c.Name) || strings.Contains(c.Name, answer) {
			return c
		}
	}

	cleanAnswer := stripPunct(answer)
	if cleanAnswer != "" {
		for _, c := range candidates {
			cleanName := stripPunct(c.Name)
			if cleanName == "" {
				continue
			}
			if strings.Contains(cleanAnswer, cleanName) || strings.Contains(cleanName, cleanAnswer) {
				return c
			}
		}
	}

	lowerAnswer := strings.ToLower(answer)
	for _, c := range candidates {
		lowerName := strings.ToLower(c.Name)
		if lowerAnswer == lowerName || strings.Contains(lowerAnswer, lowerName) || strings.Contains(lowerName, lowerAnswer) {
			return c
		}
	}

	return nil
}

func stripPunct(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			return -1
		}
		return r
	}, s)
}
