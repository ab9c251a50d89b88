package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	paperindex "github.com/ivanbaha/opensearch-demo"
	"github.com/ivanbaha/opensearch-demo/ai"
	"github.com/ivanbaha/opensearch-demo/ingestion"
	"github.com/ivanbaha/opensearch-demo/search"
	"github.com/ivanbaha/opensearch-demo/storage"
)

func main() {
	app := &cli.App{
		Name:  "opensearch-demo",
		Usage: "Sync paper records into a search index and query them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"PAPERS_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the BadgerDB source store directory",
				Value:   "./data/source",
				EnvVars: []string{"PAPERS_DB_PATH"},
			},
			&cli.StringFlag{
				Name:    "checkpoint",
				Usage:   "Path to the sync checkpoint file",
				Value:   "./data/checkpoint.json",
				EnvVars: []string{"PAPERS_CHECKPOINT_PATH"},
			},
			&cli.StringFlag{
				Name:    "engine-url",
				Usage:   "Search engine base URL",
				Value:   "http://localhost:9200",
				EnvVars: []string{"PAPERS_ENGINE_URL"},
			},
			&cli.StringFlag{
				Name:    "engine-user",
				Usage:   "Search engine basic auth user",
				EnvVars: []string{"PAPERS_ENGINE_USER"},
			},
			&cli.StringFlag{
				Name:    "engine-password",
				Usage:   "Search engine basic auth password",
				EnvVars: []string{"PAPERS_ENGINE_PASSWORD"},
			},
			&cli.BoolFlag{
				Name:    "engine-insecure",
				Usage:   "Skip TLS certificate verification",
				EnvVars: []string{"PAPERS_ENGINE_INSECURE"},
			},
			&cli.StringFlag{
				Name:    "index",
				Usage:   "Target index name",
				Value:   search.DefaultIndexName,
				EnvVars: []string{"PAPERS_INDEX"},
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				Value:   "http://localhost:11434/v1",
				EnvVars: []string{"PAPERS_EMBEDDING_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				Value:   "nomic-embed-text",
				EnvVars: []string{"PAPERS_EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "embedding-token",
				Usage:   "Embedding service API token",
				EnvVars: []string{"PAPERS_EMBEDDING_TOKEN"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "Sync papers from the source store into the index",
				Action: syncCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page-size",
						Usage: "Number of records per sync batch",
						Value: 100,
					},
					&cli.DurationFlag{
						Name:  "page-pause",
						Usage: "Pause between successful batches",
						Value: 200 * time.Millisecond,
					},
				},
			},
			{
				Name:   "status",
				Usage:  "Show sync checkpoint status",
				Action: statusCommand,
			},
			{
				Name:      "search",
				Usage:     "Filtered lexical search",
				Action:    searchCommand,
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "author", Usage: "Match author family name"},
					&cli.StringFlag{Name: "journal", Usage: "Filter by exact journal name"},
					&cli.BoolFlag{Name: "has-abstract", Usage: "Only papers with an abstract"},
					&cli.TimestampFlag{Name: "published-from", Usage: "Published on or after (YYYY-MM-DD)", Layout: "2006-01-02"},
					&cli.TimestampFlag{Name: "published-to", Usage: "Published on or before (YYYY-MM-DD)", Layout: "2006-01-02"},
					&cli.StringSliceFlag{Name: "topic", Usage: "Filter by topic name (repeatable)"},
					&cli.StringFlag{Name: "sort", Usage: "Sort mode (relevance, hot, top, latest)", Value: "relevance"},
					pageFlag(), sizeFlag(),
				},
			},
			{
				Name:      "contextual",
				Usage:     "Contextual search over combined title/abstract text",
				Action:    contextualCommand,
				ArgsUsage: "<query>",
				Flags:     []cli.Flag{pageFlag(), sizeFlag()},
			},
			{
				Name:      "semantic",
				Usage:     "Hybrid semantic search (embedding + lexical)",
				Action:    semanticCommand,
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sort", Usage: "Tiebreak sort mode (relevance, hot, top, latest)", Value: "relevance"},
					pageFlag(), sizeFlag(),
				},
			},
			{
				Name:   "list",
				Usage:  "List papers under a named sort",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sort", Usage: "Sort mode (hot, top, latest)", Value: "latest"},
					pageFlag(), sizeFlag(),
				},
			},
			{
				Name:      "topic",
				Usage:     "List papers for a topic ordered by a per-topic score",
				Action:    topicCommand,
				ArgsUsage: "<topic>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sort", Usage: "Per-topic score (hot, top, relevance)", Value: "hot"},
					pageFlag(), sizeFlag(),
				},
			},
			{
				Name:  "index",
				Usage: "Index administration",
				Subcommands: []*cli.Command{
					{
						Name:   "create",
						Usage:  "Create the index if it does not exist",
						Action: indexCreateCommand,
					},
					{
						Name:   "delete",
						Usage:  "Delete the index",
						Action: indexDeleteCommand,
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "yes", Usage: "Skip the confirmation prompt"},
						},
					},
					{
						Name:   "info",
						Usage:  "Show index statistics and cluster health",
						Action: indexInfoCommand,
					},
					{
						Name:   "refresh",
						Usage:  "Make recent writes visible to search",
						Action: indexRefreshCommand,
					},
				},
			},
			{
				Name:   "duplicates",
				Usage:  "Scan the index for papers sharing a DOI or title",
				Action: duplicatesCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func pageFlag() cli.Flag {
	return &cli.IntFlag{Name: "from", Usage: "Result offset", Value: 0}
}

func sizeFlag() cli.Flag {
	return &cli.IntFlag{Name: "size", Usage: "Result count", Value: 10}
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("unknown log level: %s", c.String("log-level"))
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

func newService(c *cli.Context) (*paperindex.Service, error) {
	var engineOpts []search.ClientOption
	if c.String("engine-user") != "" {
		engineOpts = append(engineOpts, search.WithBasicAuth(c.String("engine-user"), c.String("engine-password")))
	}
	if c.Bool("engine-insecure") {
		engineOpts = append(engineOpts, search.WithInsecureTLS())
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
		ai.WithToken(c.String("embedding-token")),
	)

	return paperindex.NewService(
		c.String("db"),
		c.String("checkpoint"),
		c.String("engine-url"),
		paperindex.WithAIConfig(aiConfig),
		paperindex.WithIndexName(c.String("index")),
		paperindex.WithEngineOptions(engineOpts...),
	)
}

func syncCommand(c *cli.Context) error {
	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	syncer, err := service.NewSyncer(
		ingestion.WithPageSize(c.Int("page-size")),
		ingestion.WithPagePause(c.Duration("page-pause")),
	)
	if err != nil {
		return err
	}
	defer syncer.Release()

	ctx := context.Background()
	if err := syncer.Start(ctx); err != nil {
		return err
	}

	// Let the operator interrupt a long sync; progress is checkpointed
	// so the next run resumes.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	finished := make(chan struct{})
	go func() {
		syncer.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case sig := <-signals:
		fmt.Fprintf(os.Stderr, "received %s, stopping sync\n", sig)
		stopCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := syncer.Stop(stopCtx); err != nil {
			return fmt.Errorf("failed to stop sync cleanly: %w", err)
		}
	}

	_, checkpoint := syncer.Status()
	fmt.Printf("retrieved: %d\nindexed: %d\n", checkpoint.TotalRetrieved, checkpoint.TotalIndexed)
	if len(checkpoint.Errors) > 0 {
		fmt.Printf("errors: %d (see status for details)\n", len(checkpoint.Errors))
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	store := storage.NewFileCheckpointStore(c.String("checkpoint"))
	checkpoint, err := store.Load()
	if err != nil {
		return err
	}

	lastKey := "<none>"
	if checkpoint.LastKey != nil {
		lastKey = *checkpoint.LastKey
	}
	fmt.Printf("running: %t\n", checkpoint.Running)
	fmt.Printf("last key: %s\n", lastKey)
	fmt.Printf("retrieved: %d\n", checkpoint.TotalRetrieved)
	fmt.Printf("indexed: %d\n", checkpoint.TotalIndexed)
	if !checkpoint.StartedAt.IsZero() {
		fmt.Printf("started at: %s\n", checkpoint.StartedAt.Format(time.RFC3339))
	}
	if !checkpoint.LastInteraction.IsZero() {
		fmt.Printf("last interaction: %s\n", checkpoint.LastInteraction.Format(time.RFC3339))
	}
	for _, e := range checkpoint.Errors {
		fmt.Printf("error [%s]: %s\n", e.At.Format(time.RFC3339), e.Message)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("usage: search <query>")
	}

	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	queries, err := service.NewQueryService()
	if err != nil {
		return err
	}

	params := search.LexicalParams{
		Query:   query,
		Author:  c.String("author"),
		Journal: c.String("journal"),
		Topics:  c.StringSlice("topic"),
		Sort:    search.SortMode(c.String("sort")),
		From:    c.Int("from"),
		Size:    c.Int("size"),
	}
	if c.IsSet("has-abstract") {
		hasAbstract := c.Bool("has-abstract")
		params.HasAbstract = &hasAbstract
	}
	if ts := c.Timestamp("published-from"); ts != nil && !ts.IsZero() {
		params.PublishedFrom = ts
	}
	if ts := c.Timestamp("published-to"); ts != nil && !ts.IsZero() {
		params.PublishedTo = ts
	}

	result, err := queries.SearchPapers(c.Context, params)
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

func contextualCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("usage: contextual <query>")
	}

	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	queries, err := service.NewQueryService()
	if err != nil {
		return err
	}

	result, err := queries.SearchContextual(c.Context, query, c.Int("from"), c.Int("size"))
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

func semanticCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("usage: semantic <query>")
	}

	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	queries, err := service.NewQueryService()
	if err != nil {
		return err
	}

	result, err := queries.SearchSemantic(c.Context, query,
		search.SortMode(c.String("sort")), c.Int("from"), c.Int("size"))
	if err != nil {
		return err
	}
	if result.Fallback {
		fmt.Fprintln(os.Stderr, "note: embedding unavailable, results are from contextual search")
	}
	printResult(result)
	return nil
}

func listCommand(c *cli.Context) error {
	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	queries, err := service.NewQueryService()
	if err != nil {
		return err
	}

	result, err := queries.ListPapers(c.Context,
		search.SortMode(c.String("sort")), c.Int("from"), c.Int("size"))
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

func topicCommand(c *cli.Context) error {
	topic := strings.TrimSpace(c.Args().First())
	if topic == "" {
		return fmt.Errorf("usage: topic <topic>")
	}

	var sortField search.TopicSortField
	switch c.String("sort") {
	case "hot":
		sortField = search.TopicSortHot
	case "top":
		sortField = search.TopicSortTop
	case "relevance":
		sortField = search.TopicSortRelevance
	default:
		return fmt.Errorf("unknown topic sort: %s", c.String("sort"))
	}

	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	queries, err := service.NewQueryService()
	if err != nil {
		return err
	}

	result, err := queries.ListByTopic(c.Context, search.TopicParams{
		Topic: topic,
		Sort:  sortField,
		From:  c.Int("from"),
		Size:  c.Int("size"),
	})
	if err != nil {
		return err
	}
	printResult(result)
	return nil
}

func indexCreateCommand(c *cli.Context) error {
	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	if err := service.Engine().EnsureIndex(c.Context, c.String("index")); err != nil {
		return err
	}
	fmt.Printf("index %s ready\n", c.String("index"))
	return nil
}

func indexDeleteCommand(c *cli.Context) error {
	name := c.String("index")
	if !c.Bool("yes") {
		fmt.Printf("delete index %s? [y/N] ", name)
		var answer string
		fmt.Scanln(&answer)
		if strings.ToLower(answer) != "y" {
			fmt.Println("aborted")
			return nil
		}
	}

	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	if err := service.Engine().DeleteIndex(c.Context, name); err != nil {
		return err
	}
	fmt.Printf("index %s deleted\n", name)
	return nil
}

func indexInfoCommand(c *cli.Context) error {
	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	stats, err := service.Engine().Stats(c.Context, c.String("index"))
	if err != nil {
		return err
	}
	health, err := service.Engine().ClusterHealth(c.Context)
	if err != nil {
		return err
	}

	fmt.Printf("index: %s\n", c.String("index"))
	fmt.Printf("documents: %d\n", stats.Docs)
	fmt.Printf("size: %d bytes\n", stats.SizeInBytes)
	fmt.Printf("cluster: %s (%d nodes, %d active shards)\n",
		health.Status, health.NumberOfNodes, health.ActiveShards)
	return nil
}

func indexRefreshCommand(c *cli.Context) error {
	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	if err := service.Engine().Refresh(c.Context, c.String("index")); err != nil {
		return err
	}
	fmt.Println("refreshed")
	return nil
}

func duplicatesCommand(c *cli.Context) error {
	service, err := newService(c)
	if err != nil {
		return err
	}
	defer service.Close()

	queries, err := service.NewQueryService()
	if err != nil {
		return err
	}

	groups, err := queries.FindDuplicates(c.Context)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		fmt.Println("no duplicates found")
		return nil
	}
	for _, group := range groups {
		fmt.Printf("%s (%s): %s\n", group.Fingerprint, group.Kind, strings.Join(group.IDs, ", "))
	}
	return nil
}

func printResult(result *search.QueryResult) {
	if result.Degraded {
		fmt.Fprintln(os.Stderr, "warning: engine response could not be parsed, raw body follows")
		fmt.Println(string(result.Raw))
		return
	}

	fmt.Printf("total: %d\n", result.Total)
	for i, hit := range result.Hits {
		score := 0.0
		if hit.Score != nil {
			score = *hit.Score
		}
		fmt.Printf("%2d. %s (score %.4f)\n", i+1, hit.Source.Title, score)
		fmt.Printf("    id=%s doi=%s journal=%s published=%s\n",
			hit.ID, hit.Source.DOI, hit.Source.Journal,
			hit.Source.PublishedAt.Format("2006-01-02"))
		for field, fragments := range hit.Highlight {
			for _, fragment := range fragments {
				fmt.Printf("    %s: %s\n", field, fragment)
			}
		}
	}
}
