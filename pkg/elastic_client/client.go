package elastic_client

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"time"

	"github.com/busmitra/busmitra/pkg/util"
	"github.com/cenkalti/backoff/v4"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/rs/zerolog/log"
)

type Client struct {
	es          *elasticsearch.Client
	bulkIndexer esutil.BulkIndexer
}

// Connect sets up the Elasticsearch client. When no address is configured and the client is not
// required, it returns a nil Client and no error; a nil Client silently drops every document.
func Connect(required bool) (*Client, error) {
	env := util.GetEnvironmentVariables()
	address := env["BUSMITRA_ELASTICSEARCH_ADDRESS"]

	if address == "" && !required {
		log.Info().Msg("Skipping Elasticsearch setup")
		return nil, nil
	} else if address == "" && required {
		log.Fatal().Msg("Elasticsearch configuration not set")
	}

	tp := http.DefaultTransport.(*http.Transport).Clone()
	if env["BUSMITRA_ELASTICSEARCH_INSECURE"] == "YES" {
		tp.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	retryBackoff := backoff.NewExponentialBackOff()

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{address},
		Username:  env["BUSMITRA_ELASTICSEARCH_USERNAME"],
		Password:  env["BUSMITRA_ELASTICSEARCH_PASSWORD"],
		Transport: tp,

		RetryOnStatus: []int{502, 503, 504, 429},

		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retryBackoff.Reset()
			}
			return retryBackoff.NextBackOff()
		},
		MaxRetries: 5,
	})
	if err != nil {
		return nil, err
	}

	_, err = es.Info()
	if err != nil {
		return nil, err
	}

	bulkIndexer, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:        es,
		FlushInterval: 15 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	log.Info().Msgf("Elasticsearch client setup for %s", address)

	return &Client{
		es:          es,
		bulkIndexer: bulkIndexer,
	}, nil
}

func (c *Client) IndexRequest(indexName string, document io.ReadSeeker) {
	if c == nil {
		return
	}

	err := c.bulkIndexer.Add(
		context.Background(),
		esutil.BulkIndexerItem{
			Index:  indexName,
			Action: "index",
			Body:   document,
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					log.Error().Err(err).Str("indexName", indexName).Msg("Failed to index document")
				} else {
					log.Error().Str("type", res.Error.Type).Str("reason", res.Error.Reason).Msg("Failed to index document")
				}
			},
		},
	)
	if err != nil {
		log.Error().Err(err).Str("indexName", indexName).Msg("Failed to queue document")
	}
}

// Close flushes anything still queued in the bulk indexer
func (c *Client) Close(ctx context.Context) error {
	if c == nil {
		return nil
	}

	return c.bulkIndexer.Close(ctx)
}
