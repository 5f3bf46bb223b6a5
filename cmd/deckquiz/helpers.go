package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/at-ishikawa/deckquiz/internal/bank"
	"github.com/at-ishikawa/deckquiz/internal/compiler"
	"github.com/at-ishikawa/deckquiz/internal/config"
	"github.com/at-ishikawa/deckquiz/internal/deck"
)

var errNoQuestions = errors.New("no questions found")

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// compileDeck builds a bank from the deck at path and writes its pictures into the configured assets directory
func compileDeck(cfg *config.Config, path string) (bank.Bank, error) {
	d, err := deck.Open(path)
	if err != nil {
		return nil, fmt.Errorf("deck.Open(%s) > %w", path, err)
	}

	writer, err := deck.NewFSImageWriter(cfg.AssetsDirectory(path))
	if err != nil {
		return nil, fmt.Errorf("deck.NewFSImageWriter() > %w", err)
	}
	b, err := compiler.NewCompiler(writer).Compile(d)
	if err != nil {
		return nil, fmt.Errorf("compiler.Compile(%s) > %w", path, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w in %s", errNoQuestions, path)
	}
	return b, nil
}

// loadBank reads a bank file. PPTX files, and YAML decks when asDeck is set, are compiled first.
func loadBank(cfg *config.Config, path string, asDeck bool) (bank.Bank, error) {
	if err := config.ValidateInputFile(path); err != nil {
		return nil, err
	}
	if asDeck || !bank.IsBankFile(path) {
		return compileDeck(cfg, path)
	}

	b, err := bank.Load(path)
	if err != nil {
		return nil, fmt.Errorf("bank.Load(%s) > %w", path, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%w in %s", errNoQuestions, path)
	}
	return b, nil
}

// relativeImages rewrites image paths relative to dir, where the bank file is saved
func relativeImages(b bank.Bank, dir string) bank.Bank {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return b
	}

	result := make(bank.Bank, len(b))
	for i, item := range b {
		item = item.Clone()
		if rel, ok := relativePath(absDir, item.ImagePath()); ok {
			item.Image = &rel
		}
		result[i] = item
	}
	return result
}

func relativePath(absDir, path string) (string, bool) {
	if path == "" {
		return "", false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// defaultBankPath is "{deck dir}/{deck name}_bank.yml"
func defaultBankPath(deckPath string) string {
	base := filepath.Base(deckPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(deckPath), stem+"_bank.yml")
}
