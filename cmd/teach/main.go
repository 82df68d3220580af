// kumaonitrans-teach - Knowledge base maintenance for the translator.
// Usage: teach [options] <command> [args]
//
// Commands:
//
//	word <hinglish> <kumaoni> [part-of-speech]
//	phrase <hinglish> = <kumaoni>
//	rule <category> <pattern> <replacement> [priority]
//	idiom <pattern> = <meaning> [category] [confidence]
//	import <file.json>
//	export [file.json]
//	search <query>
//	analyze <corpus.json>
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/analyze"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/config"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/learn"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/ui"

	"github.com/spf13/pflag"
)

func main() {
	dataDir := pflag.StringP("data-dir", "d", config.DefaultDataDir(), "Knowledge base directory")
	quiet := pflag.BoolP("quiet", "q", false, "Suppress progress output")
	verbose := pflag.BoolP("verbose", "v", false, "Verbose output")

	pflag.Parse()

	term := ui.New(*quiet, *verbose)

	if pflag.NArg() < 1 {
		usage()
	}
	command := pflag.Arg(0)
	args := pflag.Args()[1:]

	base, err := kb.Load(*dataDir)
	if err != nil {
		term.Error(fmt.Sprintf("loading knowledge base: %v", err))
		os.Exit(1)
	}
	learner := learn.New(base)

	save := true
	switch command {
	case "word":
		if len(args) < 2 {
			usage()
		}
		pos := ""
		if len(args) > 2 {
			pos = args[2]
		}
		err = learner.AddWord(args[0], args[1], pos)
		if err == nil {
			term.Success(fmt.Sprintf("word: %s = %s", args[0], args[1]))
		}

	case "phrase":
		src, tgt, ok := splitPair(args)
		if !ok {
			usage()
		}
		err = learner.AddPhrase(src, tgt)
		if err == nil {
			term.Success(fmt.Sprintf("phrase: %s = %s", src, tgt))
		}

	case "rule":
		if len(args) < 3 {
			usage()
		}
		priority := 1
		if len(args) > 3 {
			if priority, err = strconv.Atoi(args[3]); err != nil {
				term.Error(fmt.Sprintf("priority: %v", err))
				os.Exit(1)
			}
		}
		err = learner.AddRule(args[0], args[1], args[2], priority)
		if err == nil {
			term.Success(fmt.Sprintf("rule: %s:%s -> %s", args[0], args[1], args[2]))
		}

	case "idiom":
		pattern, rest, ok := splitPair(args)
		if !ok {
			usage()
		}
		// Trailing words of the right side may be category and confidence.
		meaning, category, confidence := parseIdiomArgs(rest)
		err = learner.AddIdiom(pattern, meaning, category, confidence)
		if err == nil {
			term.Success(fmt.Sprintf("idiom: %s = %s (%s, %.2f)", pattern, meaning, category, confidence))
		}

	case "import":
		if len(args) != 1 {
			usage()
		}
		var data []byte
		if data, err = os.ReadFile(args[0]); err == nil {
			var report *learn.ImportReport
			if report, err = learner.Import(data); err == nil {
				term.ImportReport(report)
			}
		}

	case "export":
		save = false
		var out []byte
		if out, err = learner.Export(); err == nil {
			if len(args) > 0 {
				err = os.WriteFile(args[0], out, 0644)
			} else {
				fmt.Println(string(out))
			}
		}

	case "search":
		save = false
		if len(args) < 1 {
			usage()
		}
		term.SearchHits(learner.Search(strings.Join(args, " ")))

	case "analyze":
		if len(args) != 1 {
			usage()
		}
		var examples []analyze.Example
		if examples, err = analyze.LoadExamples(args[0]); err == nil {
			report := analyze.Analyze(examples)
			applied, skipped := report.Apply(base)
			term.Success(fmt.Sprintf("Extracted %d rules, %d patterns, %d phrases from %d examples",
				len(report.Rules), len(report.Idioms), len(report.Phrases), len(examples)))
			term.Info(fmt.Sprintf("Applied %d entries, skipped %d conflicts", applied, skipped))
		}

	default:
		usage()
	}

	if err != nil {
		term.Error(err.Error())
		os.Exit(1)
	}

	if save {
		if err := base.Save(*dataDir); err != nil {
			term.Error(fmt.Sprintf("saving knowledge base: %v", err))
			os.Exit(1)
		}
		term.KBStats(base.Stats())
	}
}

// splitPair splits args on a "=" argument into the two sides.
func splitPair(args []string) (left, right string, ok bool) {
	joined := strings.Join(args, " ")
	parts := strings.SplitN(joined, "=", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	left = strings.TrimSpace(parts[0])
	right = strings.TrimSpace(parts[1])
	return left, right, left != "" && right != ""
}

// parseIdiomArgs takes the right side of an idiom command and peels off an
// optional trailing category and confidence.
func parseIdiomArgs(rest string) (meaning, category string, confidence float64) {
	category = string(kb.CategoryIdiom)
	confidence = 0.8

	words := strings.Fields(rest)
	if n := len(words); n > 1 {
		if v, err := strconv.ParseFloat(words[n-1], 64); err == nil {
			confidence = v
			words = words[:n-1]
		}
	}
	if n := len(words); n > 1 {
		if _, err := kb.ParseIdiomCategory(words[n-1]); err == nil {
			category = words[n-1]
			words = words[:n-1]
		}
	}
	return strings.Join(words, " "), category, confidence
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: teach [options] <command> [args]")
	fmt.Fprintln(os.Stderr, `
Commands:
  word <hinglish> <kumaoni> [part-of-speech]
  phrase <hinglish> = <kumaoni>
  rule <category> <pattern> <replacement> [priority]
  idiom <pattern> = <meaning> [category] [confidence]
  import <file.json>
  export [file.json]
  search <query>
  analyze <corpus.json>

Options:`)
	pflag.PrintDefaults()
	os.Exit(1)
}
