package search

// DefaultIndexName is the index papers are synced into unless
// configured otherwise.
const DefaultIndexName = "papers"

// paperIndexMapping is the settings and mapping document used to
// bootstrap the paper index. The embedding field must match the
// dimensionality of the configured embedding model. Topics are mapped
// nested so per-topic filters and script sorts see each entry on its
// own; authors stay plain objects so their fields participate in
// flat multi-field matches.
const paperIndexMapping = `{
  "settings": {
    "index": {
      "knn": true
    }
  },
  "mappings": {
    "properties": {
      "id": {"type": "keyword"},
      "externalId": {"type": "keyword"},
      "doi": {"type": "keyword"},
      "title": {"type": "text"},
      "abstract": {"type": "text"},
      "summary": {"type": "text"},
      "content": {"type": "text"},
      "embedding": {"type": "knn_vector", "dimension": 768},
      "contextualContent": {
        "type": "text",
        "fields": {
          "english": {"type": "text", "analyzer": "english"}
        }
      },
      "journal": {
        "type": "text",
        "fields": {"keyword": {"type": "keyword"}}
      },
      "publisher": {
        "type": "text",
        "fields": {"keyword": {"type": "keyword"}}
      },
      "authors": {
        "properties": {
          "givenName": {"type": "text"},
          "familyName": {
            "type": "text",
            "fields": {"keyword": {"type": "keyword"}}
          },
          "orcid": {"type": "keyword"},
          "sequence": {"type": "keyword"}
        }
      },
      "publishedAt": {"type": "date"},
      "publishedDateParts": {"type": "integer"},
      "hotScore": {"type": "double"},
      "hotScore6m": {"type": "double"},
      "pageRank": {"type": "double"},
      "citationCount": {"type": "integer"},
      "voteScore": {"type": "integer"},
      "hasAbstract": {"type": "boolean"},
      "topics": {
        "type": "nested",
        "properties": {
          "name": {"type": "keyword"},
          "relevanceScore": {"type": "double"},
          "topScore": {"type": "double"},
          "hotScore": {"type": "double"},
          "hotScore6m": {"type": "double"}
        }
      }
    }
  }
}`

// PaperIndexMapping returns the index bootstrap document.
func PaperIndexMapping() []byte {
	return []byte(paperIndexMapping)
}
