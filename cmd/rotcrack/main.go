// Package main provides the CLI entrypoint for rotcrack.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"rotcrack/internal/caesar"
	"rotcrack/internal/config"
	"rotcrack/internal/freq"
	"rotcrack/internal/lang"
	"rotcrack/internal/model"
	"rotcrack/internal/report"
	"rotcrack/internal/store"
	"rotcrack/internal/tui"
)

const (
	defaultLang        = "english"
	defaultTolerance   = 0.05
	defaultPreview     = 32
	defaultPlotHeight  = 10
	defaultCurveWindow = 20
	headLimit          = 80
)

var (
	rootLang      string
	rootTolerance float64

	crackLang      string
	crackTolerance float64
	crackScores    bool
	crackPreview   int
	crackSave      bool

	encryptKey string
	decryptKey string

	freqLang       string
	freqPlotHeight int
	freqColor      bool

	historyLang        string
	historySince       string
	historyLast        int
	historyCurveWindow int
	historyPlotHeight  int
	historyColor       bool

	referenceName  string
	referenceURL   string
	referenceForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rotcrack [file]",
		Short:         "Caesar cipher frequency cryptanalysis",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runWorkbenchCmd,
	}

	rootCmd.Flags().StringVar(&rootLang, "lang", defaultLang, "reference distribution name or file")
	rootCmd.Flags().Float64Var(&rootTolerance, "tolerance", defaultTolerance, "near-tie tolerance for ambiguity reporting")

	rootCmd.AddCommand(newCrackCmd())
	rootCmd.AddCommand(newEncryptCmd())
	rootCmd.AddCommand(newDecryptCmd())
	rootCmd.AddCommand(newFreqCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newReferenceCmd())
	rootCmd.AddCommand(newRefsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runWorkbenchCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &rootLang, fileCfg.Crack.Lang)
	applyFloatConfig(cmd, "tolerance", &rootTolerance, fileCfg.Crack.Tolerance)
	if rootTolerance < 0 {
		return fmt.Errorf("--tolerance must be >= 0")
	}

	ref, err := lang.Resolve(rootLang, config.DefaultReferenceDir())
	if err != nil {
		return referenceError(rootLang, err)
	}

	ciphertext := ""
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}
		ciphertext = string(data)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	histCfg := model.HistoryConfig{CurveWindow: defaultCurveWindow}
	workbench := tui.NewModel(st, ref, ciphertext, caesar.Options{Tolerance: rootTolerance}, histCfg)
	program := tea.NewProgram(workbench, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newCrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crack [file]",
		Short: "Recover the shift key by frequency analysis",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCrackCmd,
	}
	cmd.Flags().StringVar(&crackLang, "lang", defaultLang, "reference distribution name or file")
	cmd.Flags().Float64Var(&crackTolerance, "tolerance", defaultTolerance, "near-tie tolerance for ambiguity reporting")
	cmd.Flags().BoolVar(&crackScores, "scores", false, "print the per-shift score table")
	cmd.Flags().IntVar(&crackPreview, "preview", defaultPreview, "preview width in the score table")
	cmd.Flags().BoolVar(&crackSave, "save", false, "record the crack in the history database")
	return cmd
}

func runCrackCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &crackLang, fileCfg.Crack.Lang)
	applyFloatConfig(cmd, "tolerance", &crackTolerance, fileCfg.Crack.Tolerance)
	applyBoolConfig(cmd, "scores", &crackScores, fileCfg.Crack.ShowScores)
	applyIntConfig(cmd, "preview", &crackPreview, fileCfg.Crack.Preview)
	applyBoolConfig(cmd, "save", &crackSave, fileCfg.Crack.Save)
	if crackTolerance < 0 {
		return fmt.Errorf("--tolerance must be >= 0")
	}
	if crackPreview <= 0 {
		return fmt.Errorf("--preview must be > 0")
	}

	ref, err := lang.Resolve(crackLang, config.DefaultReferenceDir())
	if err != nil {
		return referenceError(crackLang, err)
	}
	ciphertext, source, err := readInput(args)
	if err != nil {
		return err
	}

	res, err := caesar.Crack(ciphertext, ref, caesar.Options{Tolerance: crackTolerance})
	if err != nil {
		if errors.Is(err, freq.ErrNoSignal) {
			return fmt.Errorf("input contains no letters to analyze")
		}
		return err
	}

	if err := report.RenderCrackSummary(os.Stderr, res, ref); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if crackScores {
		if err := report.RenderScores(os.Stderr, ciphertext, res, crackPreview); err != nil {
			return fmt.Errorf("failed to render scores: %w", err)
		}
		observed, err := freq.Count(ciphertext).Proportions()
		if err != nil {
			return err
		}
		if err := report.RenderDeviations(os.Stderr, report.TopDeviations(observed, ref, res.Key, 5)); err != nil {
			return fmt.Errorf("failed to render deviations: %w", err)
		}
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), res.Plaintext); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if crackSave {
		return saveCrack(ciphertext, source, ref, res)
	}
	return nil
}

func newEncryptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encrypt [file]",
		Short: "Encrypt text with a shift key",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEncryptCmd,
	}
	cmd.Flags().StringVar(&encryptKey, "key", "", "shift key 0-25, or 'random'")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func runEncryptCmd(cmd *cobra.Command, args []string) error {
	key, err := parseKey(encryptKey, true)
	if err != nil {
		return err
	}
	text, _, err := readInput(args)
	if err != nil {
		return err
	}
	out, err := caesar.Encrypt(text, key)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(cmd.OutOrStdout(), out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newDecryptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decrypt [file]",
		Short: "Decrypt text with a known shift key",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDecryptCmd,
	}
	cmd.Flags().StringVar(&decryptKey, "key", "", "shift key 0-25")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func runDecryptCmd(cmd *cobra.Command, args []string) error {
	key, err := parseKey(decryptKey, false)
	if err != nil {
		return err
	}
	text, _, err := readInput(args)
	if err != nil {
		return err
	}
	out, err := caesar.Decrypt(text, key)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(cmd.OutOrStdout(), out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newFreqCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "freq [file]",
		Short: "Show letter frequencies against a reference",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFreqCmd,
	}
	cmd.Flags().StringVar(&freqLang, "lang", defaultLang, "reference distribution name or file")
	cmd.Flags().IntVar(&freqPlotHeight, "plot-height", defaultPlotHeight, "plot height in rows")
	cmd.Flags().BoolVar(&freqColor, "color", false, "force colored plots")
	return cmd
}

func runFreqCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &freqLang, fileCfg.Crack.Lang)
	applyIntConfig(cmd, "plot-height", &freqPlotHeight, fileCfg.Output.PlotHeight)
	applyBoolConfig(cmd, "color", &freqColor, fileCfg.Output.Color)
	if freqPlotHeight <= 0 {
		return fmt.Errorf("--plot-height must be > 0")
	}

	ref, err := lang.Resolve(freqLang, config.DefaultReferenceDir())
	if err != nil {
		return referenceError(freqLang, err)
	}
	text, _, err := readInput(args)
	if err != nil {
		return err
	}

	table := freq.Count(text)
	out := cmd.OutOrStdout()
	if err := report.RenderCounts(out, table); err != nil {
		return fmt.Errorf("failed to render counts: %w", err)
	}
	if table.Letters() == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(out, ""); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := report.RenderDistribution(out, table, ref, 0, freqPlotHeight, freqColor); err != nil {
		return fmt.Errorf("failed to render distribution: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show saved cracks",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyLang, "lang", "", "reference filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N cracks")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&historyPlotHeight, "plot-height", defaultPlotHeight, "plot height in rows")
	cmd.Flags().BoolVar(&historyColor, "color", false, "force colored plots")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "plot-height", &historyPlotHeight, fileCfg.Output.PlotHeight)
	applyBoolConfig(cmd, "color", &historyColor, fileCfg.Output.Color)

	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if historyCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	cfg := model.HistoryConfig{
		Lang:        historyLang,
		Since:       sinceTime,
		Last:        historyLast,
		CurveWindow: historyCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	hist, err := report.BuildHistory(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := report.RenderHistory(out, hist); err != nil {
		return fmt.Errorf("failed to render history: %w", err)
	}
	if len(hist.Records) == 0 {
		return nil
	}
	if len(hist.Records) > 1 {
		if err := report.RenderHistoryCurve(out, hist.Records, cfg.CurveWindow, 0, historyPlotHeight, historyColor); err != nil {
			return fmt.Errorf("failed to render history curve: %w", err)
		}
		if _, err := fmt.Fprintln(out, ""); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := report.RenderLetterTotals(out, hist.LetterAggs); err != nil {
		return fmt.Errorf("failed to render letter totals: %w", err)
	}
	return nil
}

func newReferenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Manage reference distributions",
	}
	cmd.AddCommand(newReferenceBuildCmd())
	return cmd
}

func newReferenceBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [corpus]",
		Short: "Build a reference distribution from a corpus",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runReferenceBuildCmd,
	}
	cmd.Flags().StringVar(&referenceName, "name", "", "reference name")
	cmd.Flags().StringVar(&referenceURL, "url", "", "fetch the corpus from a URL")
	cmd.Flags().BoolVar(&referenceForce, "force", false, "overwrite an existing reference")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func runReferenceBuildCmd(_ *cobra.Command, args []string) error {
	name := strings.TrimSpace(strings.ToLower(referenceName))
	if name == "" {
		return fmt.Errorf("--name must not be empty")
	}
	if name == lang.English().Name {
		return fmt.Errorf("reference %q is built in", name)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("--name must be a plain name without separators")
	}

	var corpus string
	if referenceURL != "" {
		if len(args) > 0 {
			return fmt.Errorf("provide either a corpus file or --url, not both")
		}
		logErrf("Fetching corpus from %s\n", referenceURL)
		fetched, err := lang.FetchCorpus(context.Background(), referenceURL)
		if err != nil {
			return fmt.Errorf("failed to fetch corpus: %w", err)
		}
		corpus = fetched
	} else {
		text, _, err := readInput(args)
		if err != nil {
			return err
		}
		corpus = text
	}

	ref, err := lang.BuildFromCorpus(name, corpus)
	if err != nil {
		if errors.Is(err, freq.ErrNoSignal) {
			return fmt.Errorf("corpus contains no letters")
		}
		return err
	}

	outPath := config.DefaultReferencePath(name)
	if !referenceForce {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("reference already exists: %s (use --force to overwrite)", outPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat reference: %w", err)
		}
	}
	if err := lang.Save(ref, outPath); err != nil {
		return err
	}
	logErrf("Wrote %s\n", outPath)
	return nil
}

func newRefsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refs",
		Short: "List available reference distributions",
		Args:  cobra.NoArgs,
		RunE:  runRefsCmd,
	}
}

func runRefsCmd(cmd *cobra.Command, _ []string) error {
	names, err := lang.List(config.DefaultReferenceDir())
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func readInput(args []string) (string, string, error) {
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), filepath.Base(args[0]), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), "stdin", nil
}

func parseKey(value string, allowRandom bool) (int, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if allowRandom && value == "random" {
		key := caesar.RandomKey()
		logErrf("Using key %d\n", key)
		return key, nil
	}
	key, err := strconv.Atoi(value)
	if err != nil {
		if allowRandom {
			return 0, fmt.Errorf("invalid --key value (use 0-25 or 'random')")
		}
		return 0, fmt.Errorf("invalid --key value (use 0-25)")
	}
	return key, nil
}

func saveCrack(ciphertext, source string, ref lang.Reference, res caesar.Result) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	rec := model.CrackRecord{
		CreatedAt:      time.Now(),
		Lang:           ref.Name,
		Key:            res.Key,
		Score:          res.Scores[res.Key],
		Ambiguous:      res.Ambiguous,
		Letters:        res.Letters,
		Source:         source,
		CiphertextHead: headOf(ciphertext),
		PlaintextHead:  headOf(res.Plaintext),
	}
	id, err := st.InsertCrack(context.Background(), rec, letterCounts(freq.Count(ciphertext)))
	if err != nil {
		return fmt.Errorf("failed to save crack: %w", err)
	}
	logErrf("Saved crack #%d\n", id)
	return nil
}

func letterCounts(table freq.Table) []model.LetterCount {
	counts := table.Counts()
	out := make([]model.LetterCount, 0, len(counts))
	for ord, count := range counts {
		if count == 0 {
			continue
		}
		out = append(out, model.LetterCount{Letter: string(rune('a' + ord)), Count: count})
	}
	return out
}

func headOf(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	return runewidth.Truncate(flat, headLimit, "…")
}

func referenceError(name string, err error) error {
	if !errors.Is(err, lang.ErrNotFound) {
		return err
	}
	lines := []string{
		fmt.Sprintf("reference %q not found", name),
		fmt.Sprintf("expected reference at: %s", config.DefaultReferencePath(name)),
		"List references: rotcrack refs",
		fmt.Sprintf("Build one: rotcrack reference build --name %s <corpus.txt>", name),
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# rotcrack configuration
# Uncomment a value to enable it. CLI flags override config values.

[crack]
# lang = %q      # Reference distribution (built-in or custom name)
# tolerance = %.2f      # Near-tie tolerance for ambiguity reporting
# show-scores = false   # Always print the per-shift score table
# preview = %d          # Preview width in the score table
# save = false          # Record cracks in the history database

[output]
# plot-height = %d      # Plot height in rows
# color = false         # Force colored plots
`,
		defaultLang,
		defaultTolerance,
		defaultPreview,
		defaultPlotHeight,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
