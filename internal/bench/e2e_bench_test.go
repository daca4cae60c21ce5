package bench

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"dbimport/internal/pipeline"
	"dbimport/internal/record"
	"dbimport/internal/storage"
	_ "dbimport/internal/storage/sqlite"
)

// tweetLine is a realistic stream line: nested user object, coordinates,
// entity-encoded text and a reshare.
const tweetLine = `{"id":%d,"created_at":"Wed Feb 19 17:42:08 +0000 2014",` +
	`"text":"RT Maidan &amp; Khreshchatyk &lt;live&gt; 🔥 #euromaidan",` +
	`"coordinates":{"type":"Point","coordinates":[30.5234,50.4501]},` +
	`"retweeted_status":{"id":436199210523967489},` +
	`"user":{"id":42,"screen_name":"euromaidan","name":"Euromaidan","location":"Kyiv",` +
	`"time_zone":"Kyiv","utc_offset":7200,"geo_enabled":true,` +
	`"followers_count":1000,"friends_count":12,"statuses_count":5000}}` + "\n"

func streamOf(n int) []byte {
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		fmt.Fprintf(&buf, tweetLine, 436000000000000000+i)
		if i%50 == 0 {
			buf.WriteString("Stream keep-alive\n")
		}
	}
	return buf.Bytes()
}

// countingWriter acknowledges every batch without storing it.
type countingWriter struct{}

func (countingWriter) InsertBatch(_ context.Context, recs []record.Record) (int64, error) {
	return int64(len(recs)), nil
}

// BenchmarkDriverNormalize measures line reading, decoding, normalization and
// buffering without a store round trip.
//
//	go test -run=^$ -bench ^BenchmarkDriver -benchmem ./internal/bench
func BenchmarkDriverNormalize(b *testing.B) {
	input := streamOf(b.N)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := pipeline.NewDriver(countingWriter{}, logger, pipeline.Options{BatchSize: 500})

	b.SetBytes(int64(len(input)) / int64(max(b.N, 1)))
	b.ResetTimer()
	if err := d.Run(context.Background(), bytes.NewReader(input)); err != nil {
		b.Fatal(err)
	}
	b.StopTimer()
	if got := d.Stats().Inserted; got != int64(b.N) {
		b.Fatalf("inserted = %d, want %d", got, b.N)
	}
}

// BenchmarkDriverSQLite is the full ingest path into an in-memory SQLite
// table.
func BenchmarkDriverSQLite(b *testing.B) {
	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", Name: ":memory:", Table: "tweets"})
	if err != nil {
		b.Fatal(err)
	}
	defer repo.Close()
	if err := repo.EnsureSchema(ctx); err != nil {
		b.Fatal(err)
	}

	input := streamOf(b.N)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	d := pipeline.NewDriver(repo, logger, pipeline.Options{BatchSize: 1000})

	b.ResetTimer()
	if err := d.Run(ctx, bytes.NewReader(input)); err != nil {
		b.Fatal(err)
	}
	b.StopTimer()
	if s := d.Stats(); s.Dropped != 0 {
		b.Fatalf("dropped %d records", s.Dropped)
	}
}
