// kumaonitrans - Hinglish-Kumaoni rule-based translator.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/getthecodeoutofit/KumaoniTrans/internal/chat"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/config"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/engine"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/kb"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/learn"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/metrics"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/tokenizer"
	"github.com/getthecodeoutofit/KumaoniTrans/internal/ui"

	"github.com/spf13/pflag"
)

func main() {
	// Flags
	dataDir := pflag.StringP("data-dir", "d", config.DefaultDataDir(), "Knowledge base directory")
	direction := pflag.String("direction", "", "Translation direction (hinglish_to_kumaoni or kumaoni_to_hinglish, empty = auto)")
	preference := pflag.StringP("prefer", "p", config.DefaultPreference(), "Language preference (kumaoni, hinglish, mixed)")
	threshold := pflag.Float64("threshold", config.DefaultConfidenceThreshold(), "Idiom confidence threshold")
	suggestDistance := pflag.Int("suggest-distance", config.DefaultSuggestDistance(), "Max edit distance for suggestions (0 = off)")
	suggestLimit := pflag.Int("suggest-limit", config.DefaultSuggestLimit(), "Max suggestions per unknown token")
	responsesFile := pflag.String("responses", config.DefaultResponsesFile(), "Chat responses JSON file")
	chatMode := pflag.BoolP("chat", "c", false, "Interactive chat session")
	statsOnly := pflag.Bool("stats", false, "Print knowledge base statistics and exit")
	jsonOutput := pflag.BoolP("json", "j", false, "Output as JSON")
	writeMetrics := pflag.Bool("metrics", config.DefaultMetrics(), "Write session metrics")
	metricsDir := pflag.String("metrics-dir", config.DefaultMetricsDir(), "Directory for session metrics")
	quiet := pflag.BoolP("quiet", "q", false, "Suppress progress output")
	verbose := pflag.BoolP("verbose", "v", false, "Verbose output (span provenance)")

	pflag.Parse()

	term := ui.New(*quiet || *jsonOutput, *verbose)

	pref, err := kb.ParsePreference(*preference)
	if err != nil {
		term.Error(err.Error())
		os.Exit(1)
	}

	collector := metrics.NewCollector()
	collector.SetConfig("data_dir", *dataDir)
	collector.SetConfig("preference", string(pref))
	collector.SetConfig("threshold", *threshold)

	collector.StartStage("load")
	base, err := kb.Load(*dataDir)
	if err != nil {
		term.Error(fmt.Sprintf("loading knowledge base: %v", err))
		os.Exit(1)
	}
	stats := base.Stats()
	collector.IncrementCounter("entries", int64(stats.VocabCount+stats.PhraseCount+stats.RuleCount+stats.IdiomCount))
	collector.EndStage("load")

	eng := engine.New(base)
	eng.Threshold = *threshold
	eng.SuggestDistance = *suggestDistance
	eng.SuggestLimit = *suggestLimit

	if *statsOnly {
		if *jsonOutput {
			printJSON(base.Stats())
			return
		}
		term.Banner()
		term.KBStats(base.Stats())
		return
	}

	if *chatMode {
		runChat(term, base, eng, pref, *responsesFile)
		return
	}

	text := strings.Join(pflag.Args(), " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "Usage: kumaonitrans [options] <text>")
		fmt.Fprintln(os.Stderr, "\nOptions:")
		pflag.PrintDefaults()
		os.Exit(1)
	}

	dir, err := resolveDirection(eng, *direction, pref, text)
	if err != nil {
		term.Error(err.Error())
		os.Exit(1)
	}

	collector.StartStage("translate")
	res, err := eng.Translate(text, dir, pref)
	if err != nil {
		collector.EndStage("translate")
		term.Error(err.Error())
		os.Exit(1)
	}
	for _, span := range res.Spans {
		collector.IncrementCounter(string(span.Kind)+"_spans", 1)
	}
	collector.EndStage("translate")
	collector.RecordTranslation(len(tokenizer.Tokenize(text)), res.UnknownCount)

	if *jsonOutput {
		printJSON(res)
	} else {
		term.Translation(text, res)
	}

	if *writeMetrics {
		reporter := metrics.NewReporter(*metricsDir)
		previous, _ := reporter.LastSession()
		session := collector.Finalize()
		if err := reporter.Write(session); err != nil {
			term.Warning(fmt.Sprintf("Failed to write metrics: %v", err))
		} else if previous != nil {
			term.Debug(metrics.FormatComparison(metrics.CompareSessions(session, previous)))
		}
	}
}

// resolveDirection honors an explicit direction flag, then the preference,
// falling back to language detection for mixed.
func resolveDirection(eng *engine.Engine, flag string, pref kb.Preference, text string) (kb.Direction, error) {
	if flag != "" {
		return kb.ParseDirection(flag)
	}
	return eng.DirectionFor(pref, text)
}

// runChat is the interactive loop. Besides free conversation it accepts
// a few colon commands: translate:, learn word:, learn phrase:,
// language:, stats, and exit.
func runChat(term *ui.UI, base *kb.KnowledgeBase, eng *engine.Engine, pref kb.Preference, responsesFile string) {
	term.Banner()
	term.Info("Chat session. Type 'exit' to leave, 'stats' for knowledge base stats.")
	term.Info("Commands: translate: <text> | learn word: <hinglish> = <kumaoni> | learn phrase: <hinglish> = <kumaoni> | language: <kumaoni|hinglish|mixed>")
	term.Separator()

	bot := chat.New(eng, nil)
	if responses, err := chat.LoadResponses(responsesFile); err != nil {
		term.Warning(fmt.Sprintf("responses file: %v (using defaults)", err))
	} else {
		bot.Responses = responses
	}

	learner := learn.New(base)
	dirty := false

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":

		case line == "exit" || line == "quit":
			goto done

		case line == "stats":
			term.KBStats(base.Stats())

		case strings.HasPrefix(line, "language:"):
			arg := strings.TrimSpace(strings.TrimPrefix(line, "language:"))
			if p, err := kb.ParsePreference(arg); err != nil {
				term.Error(err.Error())
			} else {
				pref = p
				term.Success(fmt.Sprintf("Language preference set to %s", pref))
			}

		case strings.HasPrefix(line, "translate:"):
			text := strings.TrimSpace(strings.TrimPrefix(line, "translate:"))
			dir, err := eng.DirectionFor(pref, text)
			if err == nil {
				var res *engine.Result
				if res, err = eng.Translate(text, dir, pref); err == nil {
					term.Translation(text, res)
				}
			}
			if err != nil {
				term.Error(err.Error())
			}

		case strings.HasPrefix(line, "learn word:"):
			src, tgt, ok := splitPair(strings.TrimPrefix(line, "learn word:"))
			if !ok {
				term.Error("expected: learn word: <hinglish> = <kumaoni>")
				break
			}
			if err := learner.AddWord(src, tgt, ""); err != nil {
				term.Error(err.Error())
			} else {
				dirty = true
				term.Success(fmt.Sprintf("Learned word: %s = %s", src, tgt))
			}

		case strings.HasPrefix(line, "learn phrase:"):
			src, tgt, ok := splitPair(strings.TrimPrefix(line, "learn phrase:"))
			if !ok {
				term.Error("expected: learn phrase: <hinglish> = <kumaoni>")
				break
			}
			if err := learner.AddPhrase(src, tgt); err != nil {
				term.Error(err.Error())
			} else {
				dirty = true
				term.Success(fmt.Sprintf("Learned phrase: %s = %s", src, tgt))
			}

		default:
			reply, err := bot.Reply(line, pref)
			if err != nil {
				term.Error(err.Error())
			} else {
				term.Reply(reply)
			}
		}
		fmt.Print("> ")
	}

done:
	if dirty {
		dataDir := pflag.Lookup("data-dir").Value.String()
		if err := base.Save(dataDir); err != nil {
			term.Error(fmt.Sprintf("saving knowledge base: %v", err))
		} else {
			term.Success("Knowledge base saved")
		}
	}
	term.Done()
}

// splitPair parses "<left> = <right>".
func splitPair(s string) (left, right string, ok bool) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	left = strings.TrimSpace(parts[0])
	right = strings.TrimSpace(parts[1])
	return left, right, left != "" && right != ""
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
