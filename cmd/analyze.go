package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"rimborso/src/fsutil"
	jobctrl "rimborso/src/infrastructure/job"
	"rimborso/src/pipeline"
	"rimborso/src/textextract"
)

// analyzeCmd processes claim cases from local directories, without the
// server or the queue. Each case directory holds the three documents named
// contract.*, statement.* and template.*; the rendered letter and the
// result breakdown are written back next to them.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [case directories]",
	Short: "Analyze claim cases from local directories",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	settingDefaultConfig()
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	workDir, err := os.MkdirTemp("", "rimborso-analyze-")
	if err != nil {
		return fmt.Errorf("failed to create work directory: %v", err)
	}
	defer os.RemoveAll(workDir)

	objects := fsutil.NewLocalObjectStore(workDir)
	if err := objects.EnsureBucketExists(ctx, "cases"); err != nil {
		return err
	}

	p := newPipeline(objects, "cases")

	bar := progressbar.Default(int64(len(args)), "analyzing")
	var failed int
	for _, dir := range args {
		if err := analyzeCase(ctx, objects, p, dir); err != nil {
			fmt.Fprintf(os.Stderr, "\n%s: %v\n", dir, err)
			failed++
		}
		bar.Add(1)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d cases failed", failed, len(args))
	}
	return nil
}

func analyzeCase(ctx context.Context, objects fsutil.ObjectStore, p *pipeline.Pipeline, dir string) error {
	var input jobctrl.Input
	for _, doc := range []struct {
		name string
		ref  *jobctrl.DocumentRef
	}{
		{"contract", &input.Contract},
		{"statement", &input.Statement},
		{"template", &input.Template},
	} {
		ref, err := stageDocument(ctx, objects, dir, doc.name)
		if err != nil {
			return err
		}
		*doc.ref = ref
	}

	result, err := p.Run(ctx, input)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(dir, "letter.txt"), []byte(result.Letter), 0644); err != nil {
		return fmt.Errorf("failed to write letter: %v", err)
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "result.json"), encoded, 0644); err != nil {
		return fmt.Errorf("failed to write result: %v", err)
	}

	return nil
}

// stageDocument finds the case document with the given base name, copies it
// into the object store and returns its reference.
func stageDocument(ctx context.Context, objects fsutil.ObjectStore, dir, name string) (jobctrl.DocumentRef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return jobctrl.DocumentRef{}, fmt.Errorf("failed to read case directory: %v", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), name+".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return jobctrl.DocumentRef{}, fmt.Errorf("failed to read %s: %v", entry.Name(), err)
		}

		key := filepath.Base(dir) + "/" + entry.Name()
		if err := objects.PutObject(ctx, "cases", key, data); err != nil {
			return jobctrl.DocumentRef{}, fmt.Errorf("failed to stage %s: %v", entry.Name(), err)
		}

		mimeType := textextract.MimeTypeForFilename(entry.Name())
		if mimeType == "" {
			mimeType = "text/plain"
		}

		return jobctrl.DocumentRef{
			Key:      key,
			MimeType: mimeType,
			Filename: entry.Name(),
		}, nil
	}

	return jobctrl.DocumentRef{}, fmt.Errorf("no %s document in %s", name, dir)
}
