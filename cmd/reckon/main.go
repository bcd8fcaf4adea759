package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"reckon/internal/config"
	"reckon/internal/engine"
	"reckon/internal/history"
	"reckon/internal/prompts"
	"reckon/internal/providers"
	"reckon/internal/session"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx := context.Background()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reckon", flag.ExitOnError)
	dataDir := fs.String("data-dir", "", "Path to the config/data directory (default: user config dir)")
	verbose := fs.Bool("verbose", false, "Log pipeline state transitions and LLM calls")
	watch := fs.Bool("watch-config", false, "Reload the config file when it changes on disk")

	if err := fs.Parse(args); err != nil {
		return err
	}

	env, err := prepareRuntimeEnv(ctx, *dataDir)
	if err != nil {
		return err
	}
	defer env.Close()

	client, model, err := providers.NewLLMClientFromEnv()
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	hooks := engine.Hooks{}
	if *verbose {
		hooks = engine.DefaultHooks(log.Default())
	}

	agent := engine.NewReasoningAgent(client, model, prompts.NewCalculationPrompts(),
		engine.WithHooks(hooks...),
		engine.WithRecorders(env.Store, env.Search),
		engine.WithTolerance(env.Config.Tolerance),
		engine.WithMaxHistory(env.Config.MaxHistory),
	)

	if *watch {
		err := env.WatchConfig(func(cfg *config.Config) {
			agent.SetTolerance(cfg.Tolerance)
			log.Println("🔄 Config reloaded (provider changes apply on restart)")
		})
		if err != nil {
			log.Printf("⚠️  Config watching disabled: %v", err)
		}
	}

	log.Printf("🧮 Math agent ready (model: %s)", model)

	repl := &repl{
		agent:   agent,
		env:     env,
		session: session.New("Calculation Session"),
		titler:  session.NewTitler(client, model),
		out:     os.Stdout,
	}
	repl.loop(ctx, os.Stdin)
	return nil
}

type repl struct {
	agent   *engine.ReasoningAgent
	env     *runtimeEnv
	session *session.Session
	titler  *session.Titler
	out     io.Writer
}

func (r *repl) loop(ctx context.Context, in io.Reader) {
	fmt.Fprintln(r.out, "Type a calculation request, or 'help' for commands.")

	s := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, "you> ")
		if !s.Scan() {
			break
		}
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}

		if r.dispatch(ctx, line) {
			continue
		}

		result, err := r.agent.ProcessRequest(ctx, line)
		if err != nil {
			fmt.Fprintf(r.out, "❌ %v\n\n", err)
			continue
		}
		r.printResult(result)
	}
}

// dispatch handles REPL commands. Returns false when the line is a
// calculation request for the agent.
func (r *repl) dispatch(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "help":
		r.printHelp()

	case "stats":
		r.printStats()

	case "history":
		limit := 10
		if arg != "" {
			if n, err := strconv.Atoi(arg); err == nil && n > 0 {
				limit = n
			}
		}
		r.printHistory(ctx, limit)

	case "search":
		if arg == "" {
			fmt.Fprintln(r.out, "usage: search <query>")
			return true
		}
		r.printSearch(arg)

	case "export":
		if arg == "" {
			fmt.Fprintln(r.out, "usage: export <file>")
			return true
		}
		if err := history.ExportJSON(arg, r.agent.History()); err != nil {
			fmt.Fprintf(r.out, "❌ Export failed: %v\n", err)
			return true
		}
		fmt.Fprintf(r.out, "✅ Exported %d calculations to %s\n", len(r.agent.History()), arg)

	case "import":
		if arg == "" {
			fmt.Fprintln(r.out, "usage: import <file>")
			return true
		}
		results, err := history.ImportJSON(arg)
		if err != nil {
			fmt.Fprintf(r.out, "❌ Import failed: %v\n", err)
			return true
		}
		for _, res := range results {
			if err := r.env.Store.Record(ctx, res); err != nil {
				fmt.Fprintf(r.out, "❌ Failed to record %s: %v\n", res.ID, err)
				return true
			}
		}
		fmt.Fprintf(r.out, "✅ Imported %d calculations\n", len(results))

	case "save":
		r.saveSession(ctx, arg)

	case "sessions":
		r.printSessions()

	default:
		return false
	}
	return true
}

func (r *repl) printResult(result engine.CalculationResult) {
	fmt.Fprintf(r.out, "\n🎯 %s = %v\n", result.Expression, result.Result)
	fmt.Fprintf(r.out, "   Reasoning: %s\n", result.Reasoning)
	fmt.Fprintf(r.out, "   Confidence: %.1f%%\n", result.Confidence*100)
	if result.Verified {
		fmt.Fprintln(r.out, "   Verification: ✅ passed")
	} else {
		fmt.Fprintln(r.out, "   Verification: ⚠️  not verified")
	}
	fmt.Fprintln(r.out)
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.out, `Commands:
  help              Show this help
  stats             Session statistics
  history [n]       Show the last n stored calculations (default 10)
  search <query>    Full-text search over stored calculations
  export <file>     Export this session's calculations to JSON
  import <file>     Import calculations from an exported JSON file
  save [title]      Save the session transcript
  sessions          List saved sessions
  quit              Exit

Anything else is treated as a calculation request, e.g.
  "add 10.5 and 15.2" or "what is 100 divided by 4?"`)
}

func (r *repl) printStats() {
	stats := r.agent.Stats()
	fmt.Fprintf(r.out, "Calculations:      %d\n", stats.TotalCalculations)
	fmt.Fprintf(r.out, "Tokens used:       %d\n", stats.TotalTokensUsed)
	fmt.Fprintf(r.out, "Avg confidence:    %.1f%%\n", stats.AverageConfidence*100)
	fmt.Fprintf(r.out, "Verification rate: %.1f%%\n", stats.VerificationRate*100)
	fmt.Fprintf(r.out, "State:             %s\n", stats.CurrentState)
}

func (r *repl) printHistory(ctx context.Context, limit int) {
	results, err := r.env.Store.List(ctx, limit)
	if err != nil {
		fmt.Fprintf(r.out, "❌ Failed to list history: %v\n", err)
		return
	}
	if len(results) == 0 {
		fmt.Fprintln(r.out, "No calculations yet.")
		return
	}
	for _, res := range results {
		mark := "⚠️"
		if res.Verified {
			mark = "✅"
		}
		fmt.Fprintf(r.out, "%s %s  %s = %v (%.0f%%)\n",
			res.CreatedAt.Format("2006-01-02 15:04"), mark, res.Expression, res.Result, res.Confidence*100)
	}
}

func (r *repl) printSearch(query string) {
	hits, err := r.env.Search.Search(query, 10)
	if err != nil {
		fmt.Fprintf(r.out, "❌ Search failed: %v\n", err)
		return
	}
	if len(hits) == 0 {
		fmt.Fprintln(r.out, "No matches.")
		return
	}
	for _, hit := range hits {
		fmt.Fprintf(r.out, "%.3f  %s  (%s)\n", hit.Score, hit.Expression, hit.ID)
	}
}

func (r *repl) saveSession(ctx context.Context, title string) {
	if title != "" {
		r.session.Title = title
	} else if len(r.agent.Memory().Messages()) > 0 {
		generated, err := r.titler.GenerateTitle(ctx, r.agent.Memory().Messages())
		if err == nil && generated != "" {
			r.session.Title = generated
		}
	}

	if err := r.env.Sessions.Snapshot(r.session, r.agent); err != nil {
		fmt.Fprintf(r.out, "❌ Failed to save session: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "✅ Session saved: %s (%s)\n", r.session.Title, r.session.ID)
}

func (r *repl) printSessions() {
	list, err := r.env.Sessions.List()
	if err != nil {
		fmt.Fprintf(r.out, "❌ Failed to list sessions: %v\n", err)
		return
	}
	if len(list) == 0 {
		fmt.Fprintln(r.out, "No saved sessions.")
		return
	}
	for _, meta := range list {
		fmt.Fprintf(r.out, "%s  %-30s %d calculations  (%s)\n",
			meta.UpdatedAt.Format("2006-01-02 15:04"), meta.Title, meta.Calculations, meta.ID)
	}
}
