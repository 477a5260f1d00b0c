package netscape

import (
	"context"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/curator/internal/logger"
	"github.com/MrSnakeDoc/curator/internal/store/memory"
)

const sampleExport = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><H3 ADD_DATE="1700000000">Dev</H3>
    <DL><p>
        <DT><A HREF="https://github.com/me/repo" ADD_DATE="1700000100">My Repo</A>
        <DT><A HREF="https://go.dev/doc" ADD_DATE="1700000200">Go Docs</A>
    </DL><p>
    <DT><A HREF="https://news.example/today" ADD_DATE="1700000300">Morning News</A>
</DL><p>
`

func TestParseExport(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleExport))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 top-level entries, got %d", len(entries))
	}

	folder := entries[0]
	if !folder.IsFolder() || folder.Title != "Dev" {
		t.Errorf("expected folder Dev, got %+v", folder)
	}
	if len(folder.Children) != 2 {
		t.Fatalf("expected 2 children in Dev, got %d", len(folder.Children))
	}
	if folder.Children[0].URL != "https://github.com/me/repo" {
		t.Errorf("unexpected first child URL: %s", folder.Children[0].URL)
	}

	leaf := entries[1]
	if leaf.IsFolder() || leaf.Title != "Morning News" {
		t.Errorf("expected leaf Morning News, got %+v", leaf)
	}
	// ADD_DATE carries seconds; parsed entries hold milliseconds.
	if leaf.AddDate != 1700000300000 {
		t.Errorf("expected add date in milliseconds, got %d", leaf.AddDate)
	}
}

func TestParseSkipsAnchorsWithoutHref(t *testing.T) {
	input := `<DL><DT><A>No link</A><DT><A HREF="https://ok.example/">OK</A></DL>`
	entries, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(entries) != 1 || entries[0].URL != "https://ok.example/" {
		t.Fatalf("expected only the valid anchor, got %+v", entries)
	}
}

func TestParseNoList(t *testing.T) {
	if _, err := Parse(strings.NewReader("<html><body>nothing here</body></html>")); err == nil {
		t.Fatal("expected an error for a document without a bookmark list")
	}
}

func TestImportPreservesStructure(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleExport))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	st := memory.NewStore()
	im := NewImporter(st, logger.NewNop())

	res, err := im.Import(context.Background(), entries, "")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Folders != 1 || res.Bookmarks != 3 {
		t.Errorf("expected 1 folder and 3 bookmarks, got %d/%d", res.Folders, res.Bookmarks)
	}

	nodes, err := st.ListTree(context.Background())
	if err != nil {
		t.Fatalf("list tree: %v", err)
	}
	if len(nodes) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(nodes))
	}

	var folderID string
	for _, n := range nodes {
		if n.IsFolder() {
			folderID = n.ID
		}
	}
	children, err := st.Children(context.Background(), folderID)
	if err != nil {
		t.Fatalf("children: %v", err)
	}
	if len(children) != 2 {
		t.Errorf("expected 2 bookmarks inside the folder, got %d", len(children))
	}
}
