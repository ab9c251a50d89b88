// Seeder fills a source store with sample paper records so the sync
// and query commands can be exercised without a real upstream feed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/ivanbaha/opensearch-demo/core"
	"github.com/ivanbaha/opensearch-demo/storage/badger"
)

type samplePaper struct {
	title    string
	abstract string
	journal  string
	author   core.Author
	topics   []string
	year     int
}

// Titles and abstracts carry the markup and entity noise real upstream
// feeds produce, so seeded data exercises the text cleanup path.
var samples = []samplePaper{
	{
		title:    "<jats:title>Random Forests</jats:title>",
		abstract: "Abstract: Random forests are a combination of tree predictors.",
		journal:  "Machine Learning",
		author:   core.Author{GivenName: "Leo", FamilyName: "Breiman", Sequence: "first"},
		topics:   []string{"ensemble", "classification"},
		year:     2001,
	},
	{
		title:    "Attention Is All You Need",
		abstract: "The dominant sequence transduction models are based on recurrent networks.",
		journal:  "NeurIPS",
		author:   core.Author{GivenName: "Ashish", FamilyName: "Vaswani", Sequence: "first"},
		topics:   []string{"attention", "transformers"},
		year:     2017,
	},
	{
		title:    "Gradient-Based Learning Applied to Document Recognition",
		abstract: "Multilayer neural networks trained with backpropagation constitute a successful example.",
		journal:  "Proceedings of the IEEE",
		author:   core.Author{GivenName: "Yann", FamilyName: "LeCun", Sequence: "first"},
		topics:   []string{"neural-networks", "classification"},
		year:     1998,
	},
	{
		title:    "<jats:title>Bagging Predictors &amp; Their Properties</jats:title>",
		abstract: "<jats:p>Bagging predictors is a method for generating multiple versions of a predictor.</jats:p>",
		journal:  "Machine Learning",
		author:   core.Author{GivenName: "Leo", FamilyName: "Breiman", Sequence: "first"},
		topics:   []string{"ensemble"},
		year:     1996,
	},
	{
		title:    "XGBoost: A Scalable Tree Boosting System",
		abstract: "Tree boosting is a highly effective and widely used machine learning method.",
		journal:  "KDD",
		author:   core.Author{GivenName: "Tianqi", FamilyName: "Chen", Sequence: "first"},
		topics:   []string{"ensemble", "boosting"},
		year:     2016,
	},
	{
		title:    "Deep Residual Learning for Image Recognition",
		abstract: "Deeper neural networks are more difficult to train.",
		journal:  "CVPR",
		author:   core.Author{GivenName: "Kaiming", FamilyName: "He", Sequence: "first"},
		topics:   []string{"neural-networks", "vision"},
		year:     2016,
	},
	{
		title:    "A Few Useful Things to Know About Machine Learning",
		abstract: "Machine learning algorithms can figure out how to perform important tasks by generalizing from examples.",
		journal:  "Communications of the ACM",
		author:   core.Author{GivenName: "Pedro", FamilyName: "Domingos", Sequence: "first"},
		topics:   []string{"classification"},
		year:     2012,
	},
	{
		// No abstract at all; indexes with hasAbstract=false.
		title:   "Greedy Function Approximation: A Gradient Boosting Machine",
		journal: "Annals of Statistics",
		author:  core.Author{GivenName: "Jerome", FamilyName: "Friedman", Sequence: "first"},
		topics:  []string{"ensemble", "boosting"},
		year:    2001,
	},
}

func main() {
	dbPath := flag.String("db", "./data/source", "Path to the BadgerDB source store directory")
	copies := flag.Int("copies", 1, "How many copies of the sample set to seed")
	seed := flag.Int64("seed", 42, "Random seed for score generation")
	flag.Parse()

	if err := run(*dbPath, *copies, *seed); err != nil {
		slog.Error("seeding failed", "err", err)
		os.Exit(1)
	}
}

func run(dbPath string, copies int, seed int64) error {
	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return err
	}
	defer backend.Close()

	repo, err := badger.NewSourceRepository(backend)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	ctx := context.Background()
	total := 0

	for round := 0; round < copies; round++ {
		for i, sample := range samples {
			key := fmt.Sprintf("W%06d", round*len(samples)+i)

			topics := make([]core.TopicScore, len(sample.topics))
			for j, name := range sample.topics {
				topics[j] = core.TopicScore{
					Name:           name,
					RelevanceScore: rng.Float64(),
					TopScore:       rng.Float64(),
					HotScore:       rng.Float64(),
					HotScore6M:     rng.Float64(),
				}
			}

			stat := &core.SourceStat{
				Key:        key,
				Topics:     topics,
				HotScore:   rng.Float64() * 10,
				HotScore6M: rng.Float64() * 5,
				PageRank:   rng.Float64(),
			}
			ref := &core.SourceReference{
				Key:            key,
				Title:          []string{sample.title},
				Abstract:       sample.abstract,
				ContainerTitle: []string{sample.journal},
				Authors:        []core.Author{sample.author},
				DOI:            fmt.Sprintf("10.5555/%s", key),
				CitationCount:  rng.Intn(50000),
				DateParts:      []int{sample.year, 1 + rng.Intn(12)},
			}

			if err := repo.PutStats(ctx, stat); err != nil {
				return err
			}
			if err := repo.PutReferences(ctx, ref); err != nil {
				return err
			}
			total++
		}
	}

	slog.Info("seeded source store", "path", dbPath, "records", total)
	return nil
}
