package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/at-ishikawa/deckquiz/internal/bank"
	"github.com/at-ishikawa/deckquiz/internal/testutil"
)

func TestNewValidateCommand_RunE(t *testing.T) {
	tests := []struct {
		name              string
		banks             map[string]string
		wantOutput        []string
		wantErrorContains string
	}{
		{
			name: "valid bank",
			banks: map[string]string{
				"valid.yml": "- question: Sky\n  options: [Red, Blue]\n  answer: Blue\n",
			},
			wantOutput: []string{"All validations passed!"},
		},
		{
			name: "answer outside the options",
			banks: map[string]string{
				"broken.json": `[{"question": "Sky", "options": ["Red", "Blue"], "answer": "Green"}]`,
			},
			wantOutput:        []string{"Errors (1)", `answer "Green" is not one of the options`, "[Suggestion: Red; Blue]"},
			wantErrorContains: "validation failed with 1 error(s)",
		},
		{
			name: "warnings only",
			banks: map[string]string{
				"warn.yml": "- question: Sky\n  options: [Red, Red]\n",
			},
			wantOutput: []string{"Warnings (2)", "no answer", `duplicated option "Red"`, "Total errors: 0, Total warnings: 2"},
		},
		{
			name: "several files",
			banks: map[string]string{
				"one.yml": "[]\n",
				"two.yml": "- question: ''\n  options: [A]\n  answer: A\n",
			},
			wantOutput:        []string{"bank has no items", "question is empty"},
			wantErrorContains: "validation failed with 2 error(s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			var args []string
			for name, contents := range tt.banks {
				args = append(args, testutil.WriteFile(t, tmpDir, name, contents))
			}

			output, err := executeCommand(newValidateCommand(), args...)
			if tt.wantErrorContains != "" {
				assert.ErrorContains(t, err, tt.wantErrorContains)
			} else {
				assert.NoError(t, err)
			}
			for _, want := range tt.wantOutput {
				assert.Contains(t, output, want)
			}
		})
	}
}

func TestDisplayValidationResults(t *testing.T) {
	tests := []struct {
		name   string
		result *bank.ValidationResult
		want   []string
	}{
		{
			name:   "no errors or warnings",
			result: &bank.ValidationResult{},
			want:   []string{"=== Validation Results ===", "✓ All validations passed!"},
		},
		{
			name: "errors",
			result: &bank.ValidationResult{
				Errors: []bank.ValidationError{
					{File: "bank.yml", Location: "item 2", Message: "no options"},
				},
			},
			want: []string{"✗ Errors (1):", "  - bank.yml (item 2): no options", "Total errors: 1, Total warnings: 0"},
		},
		{
			name: "warnings",
			result: &bank.ValidationResult{
				Warnings: []bank.ValidationError{
					{File: "bank.yml", Location: "item 1", Message: "duplicated option \"A\""},
				},
			},
			want: []string{"⚠ Warnings (1):", "Total errors: 0, Total warnings: 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			displayValidationResults(&output, tt.result)
			for _, want := range tt.want {
				assert.Contains(t, output.String(), want)
			}
		})
	}
}
