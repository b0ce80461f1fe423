package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nfoedit/nfoedit/internal/batch"
	"github.com/nfoedit/nfoedit/internal/config"
	"github.com/nfoedit/nfoedit/internal/domain"
	"github.com/nfoedit/nfoedit/internal/fields"
	"github.com/nfoedit/nfoedit/internal/history"
	"github.com/nfoedit/nfoedit/internal/tmdb"
	"github.com/nfoedit/nfoedit/tui"
	"github.com/nfoedit/nfoedit/web/api"
)

var (
	previewMode string
	runMode     string
	servePort   int
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web API server",
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)

	previewCmd := &cobra.Command{
		Use:   "preview DIRECTORY FIELD VALUE",
		Short: "Preview a bulk edit on a running server",
		Args:  cobra.ExactArgs(3),
		RunE:  runPreview,
	}
	previewCmd.Flags().StringVar(&previewMode, "mode", "overwrite", "overwrite or append")
	rootCmd.AddCommand(previewCmd)

	applyCmd := &cobra.Command{
		Use:   "apply TASK_ID",
		Short: "Apply a previewed batch task on a running server",
		Args:  cobra.ExactArgs(1),
		RunE:  runApply,
	}
	rootCmd.AddCommand(applyCmd)

	statusCmd := &cobra.Command{
		Use:   "status TASK_ID",
		Short: "Show a batch task's progress",
		Args:  cobra.ExactArgs(1),
		RunE:  runStatus,
	}
	rootCmd.AddCommand(statusCmd)

	watchCmd := &cobra.Command{
		Use:   "watch TASK_ID",
		Short: "Watch a batch task's progress in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}
	rootCmd.AddCommand(watchCmd)

	runCmd := &cobra.Command{
		Use:   "run DIRECTORY FIELD VALUE",
		Short: "Preview and apply a bulk edit locally, without a server",
		Args:  cobra.ExactArgs(3),
		RunE:  runLocal,
	}
	runCmd.Flags().StringVar(&runMode, "mode", "overwrite", "overwrite or append")
	rootCmd.AddCommand(runCmd)

	fieldsCmd := &cobra.Command{
		Use:   "fields",
		Short: "List the editable fields",
		RunE:  runFields,
	}
	rootCmd.AddCommand(fieldsCmd)
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return config.Load(path)
}

func buildProcessor(cfg *config.Config) (*batch.Processor, error) {
	catalog, err := fields.Load(cfg.General.FieldsPath)
	if err != nil {
		return nil, err
	}
	store := batch.NewStore(time.Duration(cfg.Batch.TaskTTLMinutes) * time.Minute)
	return batch.NewProcessor(store, batch.NewMutator(catalog), batch.Options{
		Workers:  cfg.Batch.Workers,
		MaxFiles: cfg.Batch.MaxFiles,
		MaxDepth: cfg.Batch.MaxScanDepth,
	}), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	processor, err := buildProcessor(cfg)
	if err != nil {
		return err
	}

	if err := processor.Store().StartSweeper(cfg.Batch.SweepCron); err != nil {
		return err
	}
	defer processor.Store().StopSweeper()

	watcher, err := batch.NewWatcher()
	if err != nil {
		log.Printf("staleness watcher unavailable: %v", err)
	} else {
		processor.SetWatcher(watcher)
		defer watcher.Close()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.General.HistoryPath), 0o755); err != nil {
		return err
	}
	hist, err := history.New(cfg.General.HistoryPath)
	if err != nil {
		return err
	}
	defer hist.Close()
	processor.SetRecorder(hist)

	var tmdbClient *tmdb.Client
	if cfg.TMDB.APIKey != "" {
		tmdbClient = tmdb.NewClient(cfg.TMDB.APIKey)
	}

	port := cfg.Web.Port
	if servePort != 0 {
		port = servePort
	}
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, port)

	log.Printf("nfoedit listening on %s", addr)
	return api.NewServer(processor, hist, tmdbClient, addr).Start()
}

func runLocal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	processor, err := buildProcessor(cfg)
	if err != nil {
		return err
	}

	mode, err := domain.ParseMode(runMode)
	if err != nil {
		return err
	}

	task, err := processor.Preview(args[0], args[1], args[2], mode)
	if err != nil {
		return err
	}

	fmt.Printf("Previewed %d files\n", task.TotalFiles)
	for i, rec := range task.PreviewFiles {
		if i >= batch.SampleSize {
			fmt.Printf("  ... and %d more\n", task.TotalFiles-batch.SampleSize)
			break
		}
		fmt.Printf("  %s: %q -> %q\n", rec.Filename, rec.CurrentValue, rec.NewValue)
	}

	if _, err := processor.Apply(task.ID); err != nil {
		return err
	}

	for !task.Status().Terminal() {
		time.Sleep(100 * time.Millisecond)
	}

	snap := task.Snapshot()
	fmt.Printf("Done: %d succeeded, %d failed\n", snap.Success, snap.Failed)
	for _, e := range snap.Errors {
		fmt.Printf("  %s: %s\n", e.Filename, e.Message)
	}
	if snap.Failed > 0 {
		return fmt.Errorf("%d files failed", snap.Failed)
	}
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	req := api.PreviewRequest{
		Directory: args[0],
		Field:     args[1],
		Value:     args[2],
		Mode:      previewMode,
	}

	var resp api.PreviewResponse
	if err := postJSON(serverAddr+"/api/batch/preview", req, &resp); err != nil {
		return err
	}

	fmt.Printf("Task %s: %d files\n", resp.TaskID, resp.TotalFiles)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tCURRENT\tNEW")
	for _, rec := range resp.SampleFiles {
		fmt.Fprintf(w, "%s\t%s\t%s\n", rec.Filename, rec.CurrentValue, rec.NewValue)
	}
	return w.Flush()
}

func runApply(cmd *cobra.Command, args []string) error {
	var resp map[string]string
	if err := postJSON(serverAddr+"/api/batch/apply", api.ApplyRequest{TaskID: args[0]}, &resp); err != nil {
		return err
	}
	fmt.Printf("Task %s: %s\n", resp["task_id"], resp["status"])
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	var resp api.StatusResponse
	if err := getJSON(serverAddr+"/api/batch/status/"+args[0], &resp); err != nil {
		return err
	}

	fmt.Printf("Task %s: %s (%.0f%%)\n", resp.TaskID, resp.Status, resp.Progress)
	fmt.Printf("  processed %d/%d, %d succeeded, %d failed\n",
		resp.Processed, resp.Total, resp.Success, resp.Failed)
	if resp.Stale {
		fmt.Println("  warning: files changed since preview")
	}
	for _, e := range resp.Errors {
		fmt.Printf("  %s: %s\n", e.Filename, e.Message)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	p := tea.NewProgram(tui.NewModel(serverAddr, args[0]))
	_, err := p.Run()
	return err
}

func runFields(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, err := fields.Load(cfg.General.FieldsPath)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tMULTIPLICITY")
	for _, name := range catalog.Names() {
		mult, _ := catalog.Lookup(name)
		fmt.Fprintf(w, "%s\t%s\n", name, mult)
	}
	return w.Flush()
}

func postJSON(url string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func getJSON(url string, out interface{}) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode >= 400 {
		var apiErr map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr["error"] != "" {
			return fmt.Errorf("server: %s", apiErr["error"])
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
