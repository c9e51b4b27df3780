package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/dom/worldcup-stats/internal/domain"
	"github.com/dom/worldcup-stats/internal/engine"
	"github.com/dom/worldcup-stats/internal/service"
	"github.com/dom/worldcup-stats/internal/statsclient"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	client := statsclient.NewClient(apiURL)

	var err error
	switch command {
	case "search":
		err = searchCmd(client, args)
	case "radar":
		err = radarCmd(client, args)
	case "scatter":
		err = scatterCmd(client, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`statcli - World Cup player stat comparisons from the terminal

USAGE:
  statcli <command> [options]

COMMANDS:
  search    Find players by name
  radar     Compare players on a position's radar
  scatter   Plot two metrics across a tournament population
  help      Show this help message

ENVIRONMENT:
  API_URL   Stats server URL (default: http://localhost:8080)

EXAMPLES:
  statcli search --q=messi
  statcli search --watch --position=F
  statcli radar --position=F --basis=total 2022/Argentina/messi.json 2022/France/mbappe.json
  statcli scatter --year=2022 --position=F --x=goals --y=assists --min-minutes`)
}

func searchCmd(client *statsclient.Client, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	query := fs.String("q", "", "Name to search for (at least 2 characters)")
	position := fs.String("position", "", "Only players at this position (G, D, M, F)")
	watch := fs.Bool("watch", false, "Read queries from stdin, one per line; a new line supersedes the last")
	fs.Parse(args)

	var pos domain.Position
	if *position != "" {
		pos = domain.ParsePosition(*position)
	}

	if *watch {
		return watchSearch(client, pos)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	results, err := client.SearchPlayers(ctx, *query, pos)
	if err != nil {
		return err
	}
	return printSearchResults(results)
}

func printSearchResults(results []domain.SearchResult) error {
	if len(results) == 0 {
		fmt.Println("No players found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPOS\tYEAR\tTEAM\tREF")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s/%s/%s\n", r.Name, r.Position, r.Year, r.Team, r.Year, r.Team, r.Filename)
	}
	return w.Flush()
}

// watchSearch searches every line typed on stdin. Results of a query that a
// later line superseded are dropped.
func watchSearch(client *statsclient.Client, pos domain.Position) error {
	live := client.NewLiveSearch()
	var printMu sync.Mutex
	var wg sync.WaitGroup

	fmt.Println("Type a name and press enter (Ctrl-D to quit)")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			results, current, err := live.Search(ctx, query, pos)
			if !current {
				return
			}

			printMu.Lock()
			defer printMu.Unlock()
			fmt.Printf("\n=== %s ===\n", query)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			printSearchResults(results)
		}()
	}
	wg.Wait()
	return scanner.Err()
}

// parseRef reads a "<year>/<team>/<filename>" subject reference
func parseRef(s string) (service.SubjectRef, error) {
	parts := strings.SplitN(s, "/", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return service.SubjectRef{}, fmt.Errorf("invalid player %q, want <year>/<team>/<filename>", s)
	}
	return service.SubjectRef{Year: parts[0], Team: parts[1], Filename: parts[2]}, nil
}

func radarCmd(client *statsclient.Client, args []string) error {
	fs := flag.NewFlagSet("radar", flag.ExitOnError)
	position := fs.String("position", "ALL", "Radar schema (ALL, G, D, M, F)")
	basis := fs.String("basis", string(domain.DefaultBasis), "Basis (total, per90, teamPercent)")
	fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("radar needs at least one <year>/<team>/<filename>")
	}

	req := service.CompareRequest{
		Position: domain.ParsePosition(*position),
		Basis:    domain.ParseBasis(*basis),
	}
	for _, arg := range fs.Args() {
		ref, err := parseRef(arg)
		if err != nil {
			return err
		}
		req.Subjects = append(req.Subjects, ref)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := client.Compare(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("=== %s radar (%s) ===\n\n", result.Position.Label(), result.Basis.Label())
	printRadarTable(result)
	return nil
}

func printRadarTable(result *engine.RadarResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	header := []string{"PLAYER", "YEAR", "TEAM", "MIN"}
	for _, col := range result.Table.Columns {
		header = append(header, col.Label)
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	for _, row := range result.Table.Rows {
		cells := []string{row.Name, row.Year, row.Team, row.Minutes}
		for _, c := range row.Cells {
			cells = append(cells, fmt.Sprintf("%s (%.0f)", c.Display, c.Score))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
}

func scatterCmd(client *statsclient.Client, args []string) error {
	fs := flag.NewFlagSet("scatter", flag.ExitOnError)
	year := fs.String("year", "ALL", "Tournament year, or ALL")
	position := fs.String("position", "ALL", "Position filter (ALL, G, D, M, F)")
	x := fs.String("x", "", "X axis metric (defaults to the position's first option)")
	y := fs.String("y", "", "Y axis metric (defaults to the position's second option)")
	basis := fs.String("basis", string(domain.BasisPer90), "Basis (total, per90)")
	minMinutes := fs.Bool("min-minutes", false, fmt.Sprintf("Only players with at least %.0f minutes", engine.MinMinutesThreshold))
	limit := fs.Int("limit", 20, "Rows to print")
	fs.Parse(args)

	req := service.ScatterRequest{
		Year: *year,
		ScatterQuery: engine.ScatterQuery{
			Position:   domain.ParsePosition(*position),
			XKey:       domain.MetricKey(*x),
			YKey:       domain.MetricKey(*y),
			Basis:      domain.ParseBasis(*basis),
			MinMinutes: *minMinutes,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := client.Scatter(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("=== %s vs %s (%s, %d players) ===\n", result.X.Label, result.Y.Label, result.Basis.Label(), len(result.Points))
	if result.Correlation != nil {
		fmt.Printf("Pearson r = %.2f\n", *result.Correlation)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PLAYER\tPOS\tYEAR\tTEAM\t%s\t%s\n", strings.ToUpper(string(result.X.Key)), strings.ToUpper(string(result.Y.Key)))
	for i, p := range result.Points {
		if i >= *limit {
			break
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%.2f\n", p.Name, p.Position, p.Year, p.Team, p.X, p.Y)
	}
	return w.Flush()
}
