package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/vncsmyrnk/chatpoll/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/chatpoll/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/chatpoll/internal/config"
	"github.com/vncsmyrnk/chatpoll/internal/core/domain"
	"github.com/vncsmyrnk/chatpoll/internal/core/ports"
	"github.com/vncsmyrnk/chatpoll/internal/core/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	var creator string
	var page int
	flag.StringVar(&creator, "creator", "", "Poll creator id")
	flag.IntVar(&page, "page", 1, "Result page")
	flag.StringVar(&cfg.Store.Driver, "driver", cfg.Store.Driver, "Result store driver (postgres or sqlite)")
	flag.StringVar(&cfg.Store.SQLitePath, "sqlite-path", cfg.Store.SQLitePath, "SQLite database path")
	flag.StringVar(&cfg.Postgres.Host, "db-host", cfg.Postgres.Host, "Database host")
	flag.StringVar(&cfg.Postgres.Port, "db-port", cfg.Postgres.Port, "Database port")
	flag.StringVar(&cfg.Postgres.User, "db-user", cfg.Postgres.User, "Database user")
	flag.StringVar(&cfg.Postgres.Password, "db-pass", cfg.Postgres.Password, "Database password")
	flag.StringVar(&cfg.Postgres.DB, "db-name", cfg.Postgres.DB, "Database name")
	flag.Parse()

	if creator == "" {
		logrus.Fatal("a creator is required.")
	}

	// Use a timeout for the report to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	repo, closeDB, err := openRepository(ctx, cfg)
	if err != nil {
		logrus.Fatal(err)
	}
	defer closeDB()

	resultService := services.NewResultService(repo)

	results, err := resultService.ListResults(ctx, ports.ListResultsInput{Creator: creator, Page: page})
	if err != nil {
		logrus.Fatalf("Error listing results: %v", err)
	}
	summary, err := resultService.Summarize(ctx, creator)
	if err != nil {
		logrus.Fatalf("Error summarizing results: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CLOSED\tQUESTION\tVOTES\tRESULT")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			humanize.Time(r.ClosedAt),
			r.Question,
			humanize.Comma(int64(r.Responses.Total())),
			formatTally(r.Responses),
		)
	}
	w.Flush()

	fmt.Printf("\n%s polls, %s votes, %s without votes\n",
		humanize.Comma(int64(summary.Polls)),
		humanize.Comma(int64(summary.TotalVotes)),
		humanize.Comma(int64(summary.Unanswered)),
	)
}

func formatTally(t domain.Tally) string {
	parts := make([]string, 0, domain.OptionCount)
	for i := 1; i <= domain.OptionCount; i++ {
		parts = append(parts, fmt.Sprintf("%s %d", domain.MarkerFor(i), t[i]))
	}
	return strings.Join(parts, "  ")
}

func openRepository(ctx context.Context, cfg *config.Config) (ports.PollResultRepository, func(), error) {
	if cfg.Store.Driver == "sqlite" {
		db, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewPollResultRepository(db), func() { db.Close() }, nil
	}

	db, err := sql.Open("postgres", cfg.Postgres.ConnString())
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return postgres.NewPollResultRepository(db), func() { db.Close() }, nil
}
