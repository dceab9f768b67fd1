package analyzer

import (
	"fmt"
	"strings"

	"code-review-service/internal/entity"
	"code-review-service/internal/scm"
)

// stageFocus is the reviewer brief per analysis stage.
var stageFocus = map[entity.Stage]string{
	entity.StageSecurity: "security vulnerabilities: injection, unsafe input handling, " +
		"authentication and authorization gaps, secrets committed in code, unsafe deserialization, " +
		"weak cryptography",
	entity.StageBugs: "functional defects: logic errors, nil/null dereferences, off-by-one errors, " +
		"race conditions, unhandled error paths, resource leaks",
	entity.StageQuality: "maintainability: unclear naming, duplication, oversized functions, " +
		"dead code, misleading comments, inconsistent structure",
	entity.StagePerformance: "performance problems: unnecessary allocations, N+1 calls, " +
		"unbounded growth, blocking calls on hot paths, needless work in loops",
	entity.StageTests: "test coverage: changed behavior without tests, missing edge cases, " +
		"assertions that cannot fail, flaky constructs such as sleeps and time dependence",
	entity.StageTargetBranch: "integration risk against the target branch: behavioral regressions, " +
		"incompatible interface changes, conflicts with the target branch's expectations",
}

const outputRules = `Report each issue as an item in a numbered list. For every item:
- start with a short one-line title
- state the severity as one of: critical, high priority, medium, low
- name the file and line when known, as path:line
- end with a line starting with "Suggestion:" describing the fix

If there is nothing to report, answer exactly: No issues found.`

// systemPromptFor builds the per-stage reviewer instruction.
func systemPromptFor(stage entity.Stage) string {
	focus, ok := stageFocus[stage]
	if !ok {
		focus = "general code review"
	}
	var b strings.Builder
	b.WriteString("You are a strict, expert code reviewer. Review only the changes shown in the diff.\n")
	fmt.Fprintf(&b, "Focus exclusively on %s.\n\n", focus)
	b.WriteString(outputRules)
	return b.String()
}

// buildUserPrompt assembles the change context for one stage call.
func buildUserPrompt(stage entity.Stage, cc *scm.ChangeContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Review merge request %s: %s\n", cc.Ref(), cc.Title)
	if cc.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n", cc.Author)
	}
	if cc.SourceBranch != "" || cc.TargetBranch != "" {
		fmt.Fprintf(&b, "Branches: %s -> %s\n", cc.SourceBranch, cc.TargetBranch)
	}
	if cc.Description != "" {
		fmt.Fprintf(&b, "\nDescription:\n%s\n", cc.Description)
	}
	if langs := detectLanguages(cc.ChangedFiles); len(langs) > 0 {
		fmt.Fprintf(&b, "\nLanguages: %s\n", strings.Join(langs, ", "))
	}
	if len(cc.ChangedFiles) > 0 {
		fmt.Fprintf(&b, "Changed files (%d):\n", len(cc.ChangedFiles))
		for _, f := range cc.ChangedFiles {
			fmt.Fprintf(&b, "  %s\n", f)
		}
	}
	if stage == entity.StageTargetBranch {
		fmt.Fprintf(&b, "\nCompare the change against the %q branch it merges into and report regressions it would introduce there.\n", cc.TargetBranch)
	}

	b.WriteString("\n--- BEGIN DIFF ---\n")
	b.WriteString(cc.Diff)
	b.WriteString("\n--- END DIFF ---\n")
	return b.String()
}

func detectLanguages(files []string) []string {
	langMap := map[string]string{
		".go":   "Go",
		".py":   "Python",
		".js":   "JavaScript",
		".ts":   "TypeScript",
		".tsx":  "TypeScript/React",
		".jsx":  "JavaScript/React",
		".rs":   "Rust",
		".java": "Java",
		".rb":   "Ruby",
		".cpp":  "C++",
		".c":    "C",
		".h":    "C/C++",
		".cs":   "C#",
		".php":  "PHP",
		".kt":   "Kotlin",
		".sql":  "SQL",
		".sh":   "Shell",
		".yaml": "YAML",
		".yml":  "YAML",
		".tf":   "Terraform",
	}

	seen := make(map[string]bool)
	var langs []string
	for _, f := range files {
		for ext, lang := range langMap {
			if strings.HasSuffix(f, ext) && !seen[lang] {
				seen[lang] = true
				langs = append(langs, lang)
			}
		}
	}
	return langs
}
