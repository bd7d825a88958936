package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/ganttview/pkg/analysis"
	"github.com/vanderheijden86/ganttview/pkg/config"
	"github.com/vanderheijden86/ganttview/pkg/datasource"
	"github.com/vanderheijden86/ganttview/pkg/export"
	"github.com/vanderheijden86/ganttview/pkg/model"
	"github.com/vanderheijden86/ganttview/pkg/tree"
	"github.com/vanderheijden86/ganttview/pkg/ui"
	"github.com/vanderheijden86/ganttview/pkg/viewport"
	"github.com/vanderheijden86/ganttview/pkg/watcher"
)

const version = "0.3.0"

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	robotHelp := flag.Bool("robot-help", false, "Show AI agent help")
	robotCriticalPath := flag.Bool("robot-critical-path", false, "Output the critical path as JSON for AI agents")
	robotBlockers := flag.String("robot-blockers", "", "Output the scheduling blockers of a task ID as JSON")
	robotProjects := flag.Bool("robot-projects", false, "List registered and discovered projects as JSON")
	project := flag.String("project", "", "Open a project by name, favorite number (1-9), or path")
	setFavorite := flag.Int("set-favorite", 0, "Assign the project from -project to a favorite number key (1-9)")
	exportSVG := flag.String("export-svg", "", "Export the chart to an SVG file (e.g., chart.svg)")
	exportPNG := flag.String("export-png", "", "Export the chart to a PNG file (e.g., chart.png)")
	exportMD := flag.String("export-md", "", "Export a Markdown status report (e.g., report.md)")
	exportAll := flag.String("export-all", "", "Export SVG and PNG side by side to the given base path")
	title := flag.String("title", "", "Chart title used by exports")
	resource := flag.Bool("resource", false, "Resource mode: rows show assignment periods instead of task bars")
	watch := flag.Bool("watch", false, "Reload the TUI when the data source changes")
	poll := flag.Bool("poll", false, "Force stat polling instead of fsnotify for -watch")
	flag.Parse()

	if *help {
		fmt.Println("Usage: gv [options] [data-file]")
		fmt.Println("\nA TUI gantt chart viewer over JSON or SQLite task data.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *robotHelp {
		printRobotHelp()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("gv %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	if *resource {
		cfg.UI.ResourceMode = true
	}

	if *robotProjects {
		runRobotProjects(cfg)
		os.Exit(0)
	}

	if *setFavorite != 0 {
		if err := saveFavorite(&cfg, *project, *setFavorite); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Favorite %d set\n", *setFavorite)
		os.Exit(0)
	}

	src, err := pickSource(cfg, flag.Arg(0), *project)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Point gv at a gantt.json / gantt.db file or a project with a .gantt/ directory.")
		os.Exit(1)
	}

	tasks, err := loadTasks(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tasks: %v\n", err)
		os.Exit(1)
	}

	if *robotCriticalPath {
		runRobotCriticalPath(tasks)
		os.Exit(0)
	}

	if *robotBlockers != "" {
		runRobotBlockers(tasks, *robotBlockers)
		os.Exit(0)
	}

	chartTitle := *title
	if chartTitle == "" {
		chartTitle = filepath.Base(filepath.Dir(src.Path))
	}

	if *exportSVG != "" || *exportPNG != "" || *exportAll != "" {
		runExportCharts(cfg, tasks, chartTitle, *exportSVG, *exportPNG, *exportAll)
		os.Exit(0)
	}

	if *exportMD != "" {
		if err := export.SaveMarkdownToFile(tasks, chartTitle, *exportMD); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting markdown: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Report saved to %s\n", *exportMD)
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdout is not a terminal.")
		fmt.Fprintln(os.Stderr, "Use -export-svg/-export-png/-export-md or a -robot-* mode for non-interactive output.")
		os.Exit(1)
	}

	runTUI(cfg, src, tasks, chartTitle, *watch, *poll)
}

// pickSource resolves the data source from an explicit path, a named
// project, the enclosing project, or an interactive pick when several
// candidates exist.
func pickSource(cfg config.Config, arg, project string) (datasource.DataSource, error) {
	if arg != "" {
		return datasource.Detect(arg)
	}

	var root string
	switch {
	case project != "":
		r, ok := config.ResolveProject(cfg, project)
		if !ok {
			return datasource.DataSource{}, fmt.Errorf("unknown project %q", project)
		}
		root = r
	default:
		r, ok := config.DetectCurrentProject()
		if !ok {
			r = "."
		}
		root = r
	}

	sources, err := datasource.Discover(root)
	if err != nil {
		return datasource.DataSource{}, err
	}
	if len(sources) == 1 {
		return sources[0], nil
	}

	// Several candidates: ask when interactive, else take the freshest.
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return sources[0], nil
	}

	options := make([]huh.Option[int], len(sources))
	for i, s := range sources {
		label := fmt.Sprintf("%s (%s, %s)", s.Path, s.Type, s.ModTime.Format("2006-01-02 15:04"))
		options[i] = huh.NewOption(label, i)
	}

	var choice int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Multiple data sources found").
				Description("Which one should gv open?").
				Options(options...).
				Value(&choice),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return datasource.DataSource{}, err
	}
	return sources[choice], nil
}

func loadTasks(src datasource.DataSource) ([]model.Task, error) {
	reader, err := datasource.Open(src)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return reader.LoadTasks()
}

func runRobotCriticalPath(tasks []model.Task) {
	result, err := analysis.NewAnalyzer(tasks).CriticalPath()
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	if err != nil {
		var cycleErr *analysis.CycleError
		if errors.As(err, &cycleErr) {
			out := struct {
				Error string   `json:"error"`
				Cycle []string `json:"cycle"`
			}{Error: "dependency cycle", Cycle: cycleErr.Members}
			_ = encoder.Encode(out)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error computing critical path: %v\n", err)
		os.Exit(1)
	}

	if err := encoder.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		os.Exit(1)
	}
}

func runRobotProjects(cfg config.Config) {
	type entry struct {
		Name     string `json:"name"`
		Path     string `json:"path"`
		Favorite int    `json:"favorite,omitempty"`
	}

	projects := config.DiscoverProjects(cfg)
	out := make([]entry, 0, len(projects))
	for _, p := range projects {
		e := entry{Name: p.Name, Path: p.ResolvedPath()}
		for n, name := range cfg.Favorites {
			if strings.EqualFold(name, p.Name) {
				e.Favorite = n
			}
		}
		out = append(out, e)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		os.Exit(1)
	}
}

// saveFavorite binds a project to a number key (1-9) and persists the
// config, registering the project first when it was only discovered.
func saveFavorite(cfg *config.Config, project string, key int) error {
	if project == "" {
		return fmt.Errorf("-set-favorite needs -project")
	}
	if key < 1 || key > 9 {
		return fmt.Errorf("favorite keys are 1-9, got %d", key)
	}

	root, ok := config.ResolveProject(*cfg, project)
	if !ok {
		return fmt.Errorf("unknown project %q", project)
	}

	name := project
	if cfg.FindProject(project) == nil {
		name = filepath.Base(root)
		if cfg.FindProject(name) == nil {
			cfg.Projects = append(cfg.Projects, config.Project{Name: name, Path: root})
		}
	}
	cfg.SetFavorite(key, name)
	return config.Save(*cfg)
}

func runRobotBlockers(tasks []model.Task, taskID string) {
	blockers := analysis.NewAnalyzer(tasks).Blockers(taskID)
	out := struct {
		TaskID   string   `json:"task_id"`
		Blockers []string `json:"blockers"`
	}{TaskID: taskID, Blockers: blockers}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		os.Exit(1)
	}
}

// exportController builds an offscreen viewport over all rows for rendering.
func exportController(cfg config.Config, tasks []model.Task) *viewport.Controller {
	ctrl := viewport.NewController(
		viewport.WithRowHeight(cfg.UI.RowHeight),
		viewport.WithRowSpace(cfg.UI.RowSpace),
		viewport.WithResourceMode(cfg.UI.ResourceMode),
	)
	tr := tree.New()
	tr.Build(tasks)
	ctrl.SetTree(tr)
	// Tall enough that every row lands in the window.
	ctrl.SetAvailableHeight(float64(len(tasks)+1) * (cfg.UI.RowHeight + cfg.UI.RowSpace))
	ctrl.Run()
	return ctrl
}

func runExportCharts(cfg config.Config, tasks []model.Task, chartTitle, svgPath, pngPath, allBase string) {
	ctrl := exportController(cfg, tasks)
	opts := export.ChartOptions{
		Title:        chartTitle,
		RowHeight:    cfg.UI.RowHeight,
		RowSpace:     cfg.UI.RowSpace,
		DayWidth:     cfg.Export.DayWidth,
		ResourceMode: cfg.UI.ResourceMode,
	}

	save := func(path, format string) {
		o := opts
		o.Path = path
		o.Format = format
		if err := export.SaveChart(ctrl, o); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Chart saved to %s\n", path)
	}

	if svgPath != "" {
		save(svgPath, "svg")
	}
	if pngPath != "" {
		save(pngPath, "png")
	}

	if allBase != "" {
		if dir := filepath.Dir(allBase); dir != "." && dir != "/" {
			if err := config.EnsureIgnored(".", dir); err != nil {
				log.Printf("warning: could not update .gitignore: %v", err)
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := export.ExportAll(ctx, ctrl, opts, allBase, []string{"svg", "png"}); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting charts: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Charts saved to %s.svg and %s.png\n", allBase, allBase)
	}
}

func runTUI(cfg config.Config, src datasource.DataSource, tasks []model.Task, projectName string, watchFile, forcePoll bool) {
	// The TUI owns the terminal; route stray warnings away from it.
	log.SetOutput(io.Discard)

	mcfg := ui.ModelConfig{
		ProjectName:  projectName,
		ResourceMode: cfg.UI.ResourceMode,
		SplitRatio:   cfg.UI.SplitRatio,
		Reload: func() ([]model.Task, error) {
			return loadTasks(src)
		},
	}

	if watchFile {
		w, err := watcher.New(src.Path, watcher.WithForcePoll(forcePoll))
		if err == nil {
			if err := w.Start(); err == nil {
				defer w.Stop()
				mcfg.Changes = w.Changed()
			}
		}
	}

	m := ui.NewModel(tasks, mcfg)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running gantt viewer: %v\n", err)
		os.Exit(1)
	}
}

func printRobotHelp() {
	fmt.Println("gv (Gantt Viewer) AI Agent Interface")
	fmt.Println("====================================")
	fmt.Println("This tool analyzes task schedules and dependency structure.")
	fmt.Println("Use these commands to understand project state without a terminal UI.")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  --robot-critical-path")
	fmt.Println("      Outputs the longest scheduling chain as JSON.")
	fmt.Println("      Key fields:")
	fmt.Println("      - path: Tasks on the chain in execution order, with per-task days")
	fmt.Println("      - total_days: Length of the chain; the earliest possible finish")
	fmt.Println("      - On a dependency cycle the output is {error, cycle} with exit code 1")
	fmt.Println("")
	fmt.Println("  --robot-blockers ID")
	fmt.Println("      Lists the direct scheduling blockers of one task as JSON.")
	fmt.Println("")
	fmt.Println("  --robot-projects")
	fmt.Println("      Lists registered and discovered projects as JSON, with favorite keys.")
	fmt.Println("")
	fmt.Println("  --export-svg FILE / --export-png FILE")
	fmt.Println("      Renders the full chart to a vector or raster image.")
	fmt.Println("")
	fmt.Println("  --export-all BASE")
	fmt.Println("      Renders BASE.svg and BASE.png in one pass.")
	fmt.Println("")
	fmt.Println("  --export-md FILE")
	fmt.Println("      Generates a readable status report with a Mermaid dependency graph.")
	fmt.Println("")
	fmt.Println("  --resource")
	fmt.Println("      Rows show resource assignment periods instead of task bars.")
	fmt.Println("")
	fmt.Println("  Data selection")
	fmt.Println("      gv [flags] path/to/gantt.json   Explicit file (.json, .db, .sqlite)")
	fmt.Println("      gv [flags] -project NAME        Open a registered or discovered project")
	fmt.Println("      gv [flags]                      Discover .gantt/ in the current project")
}
