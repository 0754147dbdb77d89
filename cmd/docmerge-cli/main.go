package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"

	docmerge "github.com/goliatone/go-docmerge"
)

func main() {
	configPath := flag.String("config", "", "YAML job description (flags override its fields)")
	template := flag.String("template", "", "template file (bundled letter template if empty)")
	data := flag.String("data", "", "data file with dotted-path records")
	style := flag.String("style", "", "stylesheet passed to the document stage")
	output := flag.String("output", "", "output file (stdout if empty)")
	locale := flag.String("locale", "", "formatting locale, e.g. de or en-US")
	currency := flag.String("currency", "", "default ISO 4217 currency code")
	delimiter := flag.String("delimiter", "", "data file column delimiter")
	pick := flag.Bool("pick", false, "interactively pick the template file as well")
	flag.Parse()

	cfg := docmerge.Config{}
	if *configPath != "" {
		loaded, err := docmerge.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	applyFlag(&cfg.Template, *template)
	applyFlag(&cfg.Data, *data)
	applyFlag(&cfg.Style, *style)
	applyFlag(&cfg.Output, *output)
	applyFlag(&cfg.Locale, *locale)
	applyFlag(&cfg.Currency, *currency)
	applyFlag(&cfg.Delimiter, *delimiter)

	if err := pickInputs(&cfg, *pick); err != nil {
		log.Fatalf("Failed to pick inputs: %v", err)
	}

	result, err := docmerge.GenerateFromConfig(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to merge document: %v", err)
	}

	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, []byte(result.Markup), 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Document written to %s\n", cfg.Output)
	} else {
		fmt.Println(result.Markup)
	}
	fmt.Fprintf(os.Stderr, "Resolved %d of %d fields\n", result.Stats.ResolvedFields, result.Stats.TotalFields)
}

func applyFlag(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// pickInputs prompts for inputs the flags left unset, offering matching
// files from the working directory. A missing data file always prompts; a
// missing template only prompts under -pick, falling back to the bundled
// letter template otherwise.
func pickInputs(cfg *docmerge.Config, pickTemplate bool) error {
	if pickTemplate && cfg.Template == "" {
		choice, err := pickFile("Template file", []string{"*.tpl", "*.html"})
		if err != nil {
			return err
		}
		cfg.Template = choice
	}
	if cfg.Data == "" {
		choice, err := pickFile("Data file", []string{"*.txt", "*.csv", "*.dat"})
		if err != nil {
			return err
		}
		cfg.Data = choice
	}
	return nil
}

func pickFile(title string, patterns []string) (string, error) {
	var candidates []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return "", err
		}
		candidates = append(candidates, matches...)
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no files matching %v in the working directory", patterns)
	}

	var choice string
	prompt := &survey.Select{
		Message: title,
		Options: candidates,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return "", err
	}
	return choice, nil
}
