package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// featureContext holds state for a single scenario
type featureContext struct {
	tmpDir   string
	exitCode int
	stdout   string
	output   string
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	fc := &featureContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tmpDir, err := os.MkdirTemp("", "camoforge-features-*")
		if err != nil {
			return ctx, err
		}
		fc.tmpDir = tmpDir
		return ctx, nil
	})

	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if fc.tmpDir != "" {
			os.RemoveAll(fc.tmpDir)
		}
		return ctx, nil
	})

	sc.Step(`^a file "([^"]*)" containing:$`, fc.aFileContaining)
	sc.Step(`^I run camoforge with "([^"]*)"$`, fc.iRunCamoforgeWith)
	sc.Step(`^the exit code should be (\d+)$`, fc.theExitCodeShouldBe)
	sc.Step(`^the output should contain "([^"]*)"$`, fc.theOutputShouldContain)
	sc.Step(`^the output should not contain "([^"]*)"$`, fc.theOutputShouldNotContain)
	sc.Step(`^"([^"]*)" should exist$`, fc.shouldExist)
	sc.Step(`^"([^"]*)" should not exist$`, fc.shouldNotExist)
	sc.Step(`^"([^"]*)" should be a (\d+)x(\d+) image$`, fc.shouldBeImage)
	sc.Step(`^"([^"]*)" should be a DICOM file of (\d+) rows and (\d+) columns$`, fc.shouldBeDICOM)
	sc.Step(`^"([^"]*)" should contain (\d+) files$`, fc.shouldContainFiles)
	sc.Step(`^"([^"]*)" and "([^"]*)" should be identical$`, fc.shouldBeIdentical)
}

func (fc *featureContext) path(p string) string {
	return strings.ReplaceAll(p, "{tmpdir}", fc.tmpDir)
}

func (fc *featureContext) aFileContaining(name string, content *godog.DocString) error {
	return os.WriteFile(fc.path(name), []byte(content.Content), 0644)
}

func (fc *featureContext) iRunCamoforgeWith(args string) error {
	var stdout, stderr bytes.Buffer
	fc.exitCode = run(context.Background(), splitArgs(fc.path(args)), &stdout, &stderr)
	fc.stdout = stdout.String()
	fc.output = stdout.String() + stderr.String()
	return nil
}

func (fc *featureContext) theExitCodeShouldBe(expected int) error {
	if fc.exitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\nOutput:\n%s", expected, fc.exitCode, fc.output)
	}
	return nil
}

func (fc *featureContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(fc.output, fc.path(expected)) {
		return fmt.Errorf("output does not contain %q\nOutput:\n%s", expected, fc.output)
	}
	return nil
}

func (fc *featureContext) theOutputShouldNotContain(unexpected string) error {
	if strings.Contains(fc.output, fc.path(unexpected)) {
		return fmt.Errorf("output contains %q\nOutput:\n%s", unexpected, fc.output)
	}
	return nil
}

func (fc *featureContext) shouldExist(path string) error {
	if _, err := os.Stat(fc.path(path)); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	return nil
}

func (fc *featureContext) shouldNotExist(path string) error {
	if _, err := os.Stat(fc.path(path)); err == nil {
		return fmt.Errorf("path exists: %s", path)
	}
	return nil
}

func (fc *featureContext) shouldBeImage(path string, w, h int) error {
	f, err := os.Open(fc.path(path))
	if err != nil {
		return err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if cfg.Width != w || cfg.Height != h {
		return fmt.Errorf("expected %dx%d, got %dx%d", w, h, cfg.Width, cfg.Height)
	}
	return nil
}

func (fc *featureContext) shouldBeDICOM(path string, rows, cols int) error {
	ds, err := dicom.ParseFile(fc.path(path), nil)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for _, check := range []struct {
		t    tag.Tag
		want int
	}{{tag.Rows, rows}, {tag.Columns, cols}} {
		el, err := ds.FindElementByTag(check.t)
		if err != nil {
			return err
		}
		if got := dicom.MustGetInts(el.Value); len(got) != 1 || got[0] != check.want {
			return fmt.Errorf("%s = %v, want %d", check.t, got, check.want)
		}
	}
	return nil
}

func (fc *featureContext) shouldContainFiles(dir string, count int) error {
	entries, err := os.ReadDir(fc.path(dir))
	if err != nil {
		return err
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}
	if n != count {
		return fmt.Errorf("expected %d files in %s, found %d", count, dir, n)
	}
	return nil
}

func (fc *featureContext) shouldBeIdentical(a, b string) error {
	da, err := os.ReadFile(fc.path(a))
	if err != nil {
		return err
	}
	db, err := os.ReadFile(fc.path(b))
	if err != nil {
		return err
	}
	if !bytes.Equal(da, db) {
		return fmt.Errorf("%s and %s differ", filepath.Base(a), filepath.Base(b))
	}
	return nil
}

// splitArgs splits a command line string into arguments
func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false

	for _, r := range s {
		switch {
		case r == '\'':
			inQuote = !inQuote
		case r == ' ' && !inQuote:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}
