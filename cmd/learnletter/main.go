// learnletter — 스트림릿 주간 학습 뉴스레터 생성기
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/minsoolab/learnletter/api"
	"github.com/minsoolab/learnletter/internal/config"
	"github.com/minsoolab/learnletter/internal/curriculum"
	"github.com/minsoolab/learnletter/internal/newsletter"
	"github.com/minsoolab/learnletter/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "learnletter",
	Short: "learnletter — 스트림릿 주간 학습 뉴스레터 생성기",
	Long: `learnletter
8주 순환 커리큘럼을 따라 네이버/유튜브/뉴스 검색에서 학습 자료를 고르고,
LLM이 쓴 팁과 프로젝트 아이디어를 붙여 HTML 뉴스레터를 만듭니다.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(materialsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("learnletter %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Generate Command ---

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a weekly newsletter issue as HTML",
	Long: `Generate the newsletter for a curriculum week and write it to disk.
Without --week the week currently in rotation is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		weekNum, _ := cmd.Flags().GetInt("week")
		outDir, _ := cmd.Flags().GetString("out")
		if outDir == "" {
			outDir = cfg.Newsletter.OutDir
		}
		if outDir == "" {
			outDir = "."
		}

		week := curriculum.CurrentWeek()
		if weekNum != 0 {
			if weekNum < 1 || weekNum > curriculum.TotalWeeks {
				return fmt.Errorf("week must be between 1 and %d", curriculum.TotalWeeks)
			}
			week = curriculum.Week(weekNum)
		}

		fmt.Printf("📬 제%d주차 「%s」 (%s) 뉴스레터 생성 중...\n", week.Number, week.Title, week.Level)

		_, builder, _ := api.Assemble(cfg)

		ctx := cmd.Context()
		issue, err := builder.Generate(ctx, week)
		if err != nil {
			return fmt.Errorf("generate failed: %w", err)
		}

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		path := filepath.Join(outDir, newsletter.Filename(week.Number))
		if err := os.WriteFile(path, []byte(issue.HTML), 0o644); err != nil {
			return fmt.Errorf("write newsletter: %w", err)
		}

		total := 0
		for _, items := range issue.Materials {
			total += len(items)
		}
		fmt.Printf("✅ 완료: %s (학습 자료 %d건)\n", path, total)

		if show, _ := cmd.Flags().GetBool("print"); show {
			fmt.Println()
			fmt.Println(newsletter.RenderText(issue, week))
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().Int("week", 0, "curriculum week 1-8 (default: current week)")
	generateCmd.Flags().String("out", "", "output directory (default: newsletter.out_dir)")
	generateCmd.Flags().Bool("print", false, "also print a plain-text rendering to stdout")
}

// --- Materials Command ---

var materialsCmd = &cobra.Command{
	Use:   "materials [topic]",
	Short: "Search and rank learning materials for a topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		finder, _, _ := api.Assemble(cfg)

		topic := curriculumTopic(args[0])
		fmt.Printf("🔍 학습 자료 검색: %s", topic.Name)
		if topic.LocalName != "" && topic.LocalName != topic.Name {
			fmt.Printf(" (%s)", topic.LocalName)
		}
		fmt.Println()

		items := finder.BestMaterials(cmd.Context(), topic)
		if len(items) == 0 {
			fmt.Println("  검색 결과가 없습니다.")
			return nil
		}

		for i, item := range items {
			fmt.Printf("  %d. [%s] %s\n     %s\n", i+1, item.Source, item.Title, item.Link)
		}
		return nil
	},
}

// curriculumTopic resolves a CLI argument against the curriculum so known
// topics keep their Korean local names.
func curriculumTopic(name string) models.Topic {
	for _, week := range curriculum.All() {
		for _, t := range week.Topics {
			if t.Name == name || t.LocalName == name {
				return t
			}
		}
	}
	return models.Topic{Name: name, LocalName: name}
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := api.NewServer(cfg)
		if err != nil {
			return fmt.Errorf("server setup: %w", err)
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 learnletter API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		week := curriculum.CurrentWeek()

		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  learnletter — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Current Week:  %d/%d — %s (%s)\n", week.Number, curriculum.TotalWeeks, week.Title, week.Level)
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		fmt.Printf("    LLM Provider:  %s (model: %s)\n", cfg.LLM.Primary, cfg.LLM.Model)
		fmt.Printf("    Search Query:  %s\n", cfg.Search.Query)
		fmt.Printf("    Cache TTL:     %s\n", cfg.Search.CacheTTL)
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		// API keys status
		fmt.Println("  API Keys:")
		keys := config.CheckAPIKeys(cfg)
		for _, k := range keys {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}
		fmt.Println()

		// LLM provider health
		fmt.Println("  LLM Providers:")
		_, _, router := api.Assemble(cfg)
		if router == nil {
			fmt.Println("    (none configured)")
		} else {
			ctx := cmd.Context()
			health := router.HealthCheck(ctx)
			names := make([]string, 0, len(health))
			for name := range health {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				if err := health[name]; err != nil {
					fmt.Printf("    %-12s ❌ %v\n", name+":", err)
				} else {
					fmt.Printf("    %-12s ✅ reachable\n", name+":")
				}
			}
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
