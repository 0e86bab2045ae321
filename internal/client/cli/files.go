package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/groupshare/internal/filex"
	"github.com/dmitrijs2005/groupshare/internal/netx"
)

func (a *App) listFiles(_ context.Context) {
	if a.eng.Focus() == "" {
		fmt.Fprintln(a.out, "No group focused, use 'focus <id>'")
		return
	}
	files := a.eng.Files()
	if len(files) == 0 {
		fmt.Fprintln(a.out, "No files yet")
		return
	}

	uploaders := a.eng.Uploaders()
	for _, f := range files {
		uploader := f.UploaderName
		if p, ok := uploaders[f.UploaderID]; ok && p.DisplayName != "" {
			uploader = p.DisplayName
		}
		tags := ""
		if len(f.TagIDs) > 0 {
			tags = "  #" + strings.Join(f.TagIDs, " #")
		}
		fmt.Fprintf(a.out, "%s  %-30s %8d B  %-8s by %-15s v%d  %d downloads%s\n",
			f.ID, f.Name, f.SizeBytes, f.MimeCategory, uploader, f.VersionCount, f.DownloadCount, tags)
	}
}

func (a *App) upload(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: upload <path>")
		return
	}
	groupID := a.eng.Focus()
	if groupID == "" {
		fmt.Fprintln(a.out, "No group focused, use 'focus <id>'")
		return
	}

	record, err := a.fileService.Upload(ctx, groupID, args[0])
	if err != nil {
		fmt.Fprintf(a.out, "Upload failed: %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Uploaded %s (%s)\n", record.Name, record.ID)
}

func (a *App) replace(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: replace <file-id> <path>")
		return
	}
	if err := a.fileService.Replace(ctx, args[0], args[1]); err != nil {
		fmt.Fprintf(a.out, "Replace failed: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Replaced")
}

func (a *App) rename(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: rename <file-id> <new-name>")
		return
	}
	if err := a.fileService.Rename(ctx, args[0], args[1]); err != nil {
		fmt.Fprintf(a.out, "Rename failed: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Renamed")
}

func (a *App) remove(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: rm <file-id>")
		return
	}
	if err := a.fileService.Delete(ctx, args[0]); err != nil {
		fmt.Fprintf(a.out, "Delete failed: %v\n", err)
		return
	}
	fmt.Fprintln(a.out, "Deleted")
}

// download fetches the file content through its presigned URL into the
// local downloads directory and records the download.
func (a *App) download(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: download <file-id>")
		return
	}

	for _, f := range a.eng.Files() {
		if f.ID != args[0] {
			continue
		}
		data, err := netx.DownloadFromURL(ctx, f.URL)
		if err != nil {
			fmt.Fprintf(a.out, "Download failed: %v\n", err)
			return
		}

		dir, err := filex.EnsureSubDir("downloads")
		if err != nil {
			fmt.Fprintf(a.out, "Could not prepare downloads dir: %v\n", err)
			return
		}
		dest := filepath.Join(dir, f.Name)
		if err := os.WriteFile(dest, data, 0o600); err != nil {
			fmt.Fprintf(a.out, "Could not save file: %v\n", err)
			return
		}

		if err := a.fileService.RecordDownload(ctx, f.ID); err != nil {
			fmt.Fprintf(a.out, "Saved %s, but recording the download failed: %v\n", dest, err)
			return
		}
		fmt.Fprintf(a.out, "Saved %s\n", dest)
		return
	}
	fmt.Fprintln(a.out, "No such file in the focused group")
}
