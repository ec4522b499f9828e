package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maabuz/ishbot/internal/model"
)

const testHeader = "job_id,name,company,location,skills,description_html,link\n"

func writeCatalog(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadLegacyCatalog(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, LegacyFile, testHeader+
		"1,Go Developer,ACME,Tashkent,\"Go, SQL\",<p>Hi</p>,https://a\n"+
		"2,Analyst,Beta,Samarkand,,Desc,https://b\n")

	jobs, err := NewCSVLoader(dir).Load(context.Background(), model.SourceDefault)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	require.Equal(t, int64(1), jobs[0].ID)
	require.Equal(t, "Go Developer", jobs[0].Name)
	require.Equal(t, "Go, SQL", jobs[0].Skills)
	require.Equal(t, "<p>Hi</p>", jobs[0].Description)
}

func TestLoadSkipsRowsWithBadID(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, HHFile, testHeader+
		"abc,Broken,X,Y,,,\n"+
		"3,Valid,X,Y,,,https://x\n")

	jobs, err := NewCSVLoader(dir).Load(context.Background(), model.SourceHH)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, int64(3), jobs[0].ID)
}

func TestLoadAllPreservesSourceOrder(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, HHFile, testHeader+"10,HH Job,,,,,\n")
	writeCatalog(t, dir, LinkedInFile, testHeader+"20,LI Job,,,,,\n")
	writeCatalog(t, dir, IshUZFile, testHeader+"30,Ish Job,,,,,\n")

	jobs, err := NewCSVLoader(dir).Load(context.Background(), model.SourceAll)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	// hh before linkedin before ishuz, olx absent.
	require.Equal(t, []int64{10, 20, 30}, []int64{jobs[0].ID, jobs[1].ID, jobs[2].ID})
}

func TestLoadMissingFileYieldsEmpty(t *testing.T) {
	jobs, err := NewCSVLoader(t.TempDir()).Load(context.Background(), model.SourceOLX)
	require.NoError(t, err)
	require.Empty(t, jobs)
}

func TestLoadReordersShuffledColumns(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, LegacyFile,
		"link,name,job_id\nhttps://z,Reordered,77\n")

	jobs, err := NewCSVLoader(dir).Load(context.Background(), model.SourceDefault)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, int64(77), jobs[0].ID)
	require.Equal(t, "Reordered", jobs[0].Name)
	require.Equal(t, "https://z", jobs[0].Link)
	require.Empty(t, jobs[0].Company)
}
