package ingest_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulfoods/morsel/internal/ingest"
	"github.com/soulfoods/morsel/internal/sales"
	"github.com/soulfoods/morsel/internal/sales/store"
)

func newService() *ingest.Service {
	return ingest.NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeExtract(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestService_Run(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "out", "formatted_sales_data.csv")

	writeExtract(t, dir, "daily_sales_data_0.csv", `product,quantity,price,date,region
pink morsel,3,$3.00,2021-01-10,north
gold morsel,5,$9.99,2021-01-10,north
`)
	writeExtract(t, dir, "daily_sales_data_1.csv", `product,quantity,price,date,region
pink morsel,2,$3.00,2021-01-20,south
`)

	svc := newService()
	report, err := svc.Run(context.Background(), ingest.Options{DataDir: dir, Artifact: artifact})
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.Records)
	assert.Equal(t, 3, report.RowsRead)
	assert.Equal(t, 1, report.Filtered)
	require.Len(t, report.Extracts, 2)
	assert.Equal(t, "daily_sales_data_0.csv", report.Extracts[0].File)
	assert.Equal(t, "daily_sales_data_1.csv", report.Extracts[1].File)

	st := store.New(artifact)
	require.NoError(t, st.Load(context.Background()))
	assert.Equal(t, 2, st.Len())
}

func TestService_Run_Idempotent(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "formatted_sales_data.csv")

	writeExtract(t, dir, "daily_sales_data_0.csv", `product,quantity,price,date,region
pink morsel,3,$3.00,2021-01-10,north
`)

	svc := newService()

	_, err := svc.Run(context.Background(), ingest.Options{DataDir: dir, Artifact: artifact})
	require.NoError(t, err)
	first, err := os.ReadFile(artifact)
	require.NoError(t, err)

	_, err = svc.Run(context.Background(), ingest.Options{DataDir: dir, Artifact: artifact})
	require.NoError(t, err)
	second, err := os.ReadFile(artifact)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestService_Run_NoExtracts(t *testing.T) {
	dir := t.TempDir()
	writeExtract(t, dir, "notes.csv", "unrelated\n")
	writeExtract(t, dir, "daily_sales_data_0.txt", "wrong extension\n")

	svc := newService()
	_, err := svc.Run(context.Background(), ingest.Options{
		DataDir:  dir,
		Artifact: filepath.Join(dir, "out.csv"),
	})
	assert.ErrorIs(t, err, ingest.ErrNoExtracts)
}

func TestService_Run_AbortsWithoutArtifact(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "out.csv")

	writeExtract(t, dir, "daily_sales_data_0.csv", `product,quantity,price,date,region
pink morsel,1,$3.00,2021-01-10,north
`)
	writeExtract(t, dir, "daily_sales_data_1.csv", `product,quantity,price,date,region
pink morsel,1,broken,2021-01-11,north
`)

	svc := newService()
	_, err := svc.Run(context.Background(), ingest.Options{DataDir: dir, Artifact: artifact})
	require.ErrorIs(t, err, sales.ErrMalformedPrice)

	var rowErr *sales.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, "daily_sales_data_1.csv", rowErr.File)

	// A failed run must not leave a partial artifact.
	_, statErr := os.Stat(artifact)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDiscoverExtracts_SortedByName(t *testing.T) {
	dir := t.TempDir()
	writeExtract(t, dir, "daily_sales_data_2.csv", "x\n")
	writeExtract(t, dir, "daily_sales_data_0.csv", "x\n")
	writeExtract(t, dir, "daily_sales_data_1.csv", "x\n")

	paths, err := ingest.DiscoverExtracts(dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	assert.Equal(t, "daily_sales_data_0.csv", filepath.Base(paths[0]))
	assert.Equal(t, "daily_sales_data_1.csv", filepath.Base(paths[1]))
	assert.Equal(t, "daily_sales_data_2.csv", filepath.Base(paths[2]))
}

func TestDiscoverExtracts_MissingDir(t *testing.T) {
	_, err := ingest.DiscoverExtracts(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, sales.ErrSourceRead)
}
