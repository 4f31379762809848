package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/ludo-technologies/dddscan/domain"
	"github.com/ludo-technologies/dddscan/internal/testutil"
)

func relPaths(t *testing.T, root string, files []string) []string {
	t.Helper()
	rels := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatalf("Rel failed: %v", err)
		}
		rels = append(rels, filepath.ToSlash(rel))
	}
	sort.Strings(rels)
	return rels
}

func TestFileHelperCollectPHPFiles(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"src/Order.php":                "<?php",
		"src/Money.PHP":                "<?php",
		"src/readme.md":                "# docs",
		"src/view.blade.php":           "<?php",
		"tests/OrderTest.php":          "<?php",
		"vendor/acme/lib/Thing.php":    "<?php",
		"node_modules/x/index.php":     "<?php",
		"var/cache/Container.php":      "<?php",
		"src/Infrastructure/Clock.php": "<?php",
	})

	helper := NewFileHelper()
	files, err := helper.CollectPHPFiles(
		[]string{root}, true,
		[]string{"**/*.php", "**/*.PHP"},
		[]string{"vendor", "var", "node_modules", "*.blade.php", "*Test.php"},
		false,
	)
	if err != nil {
		t.Fatalf("CollectPHPFiles failed: %v", err)
	}

	want := []string{"src/Infrastructure/Clock.php", "src/Money.PHP", "src/Order.php"}
	if got := relPaths(t, root, files); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestFileHelperNonRecursive(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"Top.php":        "<?php",
		"nested/Low.php": "<?php",
	})

	files, err := NewFileHelper().CollectPHPFiles([]string{root}, false, nil, nil, false)
	if err != nil {
		t.Fatalf("CollectPHPFiles failed: %v", err)
	}
	if got := relPaths(t, root, files); len(got) != 1 || got[0] != "Top.php" {
		t.Errorf("Expected only Top.php, got %v", got)
	}
}

func TestFileHelperRespectsGitignore(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		".gitignore":            "generated/\nLegacy*.php\n",
		"src/Order.php":         "<?php",
		"src/LegacyOrder.php":   "<?php",
		"generated/Proxy.php":   "<?php",
		"src/generated/Dto.php": "<?php",
	})

	helper := NewFileHelper()

	files, err := helper.CollectPHPFiles([]string{root}, true, nil, nil, true)
	if err != nil {
		t.Fatalf("CollectPHPFiles failed: %v", err)
	}
	if got := relPaths(t, root, files); len(got) != 1 || got[0] != "src/Order.php" {
		t.Errorf("Expected only src/Order.php, got %v", got)
	}

	files, err = helper.CollectPHPFiles([]string{root}, true, nil, nil, false)
	if err != nil {
		t.Fatalf("CollectPHPFiles failed: %v", err)
	}
	if len(files) != 4 {
		t.Errorf("Without gitignore all 4 files should be collected, got %d", len(files))
	}
}

func TestDirFilterAgreesWithCollect(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		".gitignore":              "cache/\n",
		"src/Order.php":           "<?php",
		"src/generated/Dto.php":   "<?php",
		"generated/Proxy.php":     "<?php",
		"vendor/acme/Thing.php":   "<?php",
		"build42/Out.php":         "<?php",
		"var/cache/Container.php": "<?php",
	})
	exclude := []string{"vendor/**", "/generated", "build*"}

	files, err := NewFileHelper().CollectPHPFiles([]string{root}, true, nil, exclude, true)
	if err != nil {
		t.Fatalf("CollectPHPFiles failed: %v", err)
	}
	want := []string{"src/Order.php", "src/generated/Dto.php"}
	if got := relPaths(t, root, files); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, got)
	}

	filter := NewDirFilter(root, exclude, true)
	tests := map[string]bool{
		"src":           false,
		"src/generated": false,
		"generated":     true,
		"vendor":        true,
		"vendor/acme":   true,
		"build42":       true,
		"var":           false,
		"var/cache":     true,
	}
	for dir, want := range tests {
		if got := filter.Skipped(filepath.Join(root, filepath.FromSlash(dir))); got != want {
			t.Errorf("Skipped(%q) = %v, want %v", dir, got, want)
		}
	}
	if filter.Skipped(root) {
		t.Error("The root itself is never skipped")
	}
}

func TestFileHelperExplicitFiles(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"Order.php":     "<?php",
		"OrderTest.php": "<?php",
		"notes.txt":     "",
	})

	helper := NewFileHelper()
	paths := []string{
		filepath.Join(root, "Order.php"),
		filepath.Join(root, "OrderTest.php"),
		filepath.Join(root, "notes.txt"),
		filepath.Join(root, "Order.php"),
	}
	files, err := helper.CollectPHPFiles(paths, true, nil, []string{"*Test.php"}, false)
	if err != nil {
		t.Fatalf("CollectPHPFiles failed: %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "Order.php" {
		t.Errorf("Expected Order.php once, got %v", files)
	}
}

func TestFileHelperMissingPath(t *testing.T) {
	_, err := NewFileHelper().CollectPHPFiles([]string{filepath.Join(t.TempDir(), "missing")}, true, nil, nil, false)
	if !os.IsNotExist(err) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestFileHelperIsValidPHPFile(t *testing.T) {
	helper := NewFileHelper()

	tests := []struct {
		path     string
		expected bool
	}{
		{"Order.php", true},
		{"Order.PHP", true},
		{"view.blade.php", true},
		{"Order.phtml", false},
		{"composer.json", false},
		{"php", false},
	}

	for _, tt := range tests {
		if got := helper.IsValidPHPFile(tt.path); got != tt.expected {
			t.Errorf("IsValidPHPFile(%s) = %v, expected %v", tt.path, got, tt.expected)
		}
	}
}

func TestFileHelperFileExists(t *testing.T) {
	helper := NewFileHelper()
	dir := t.TempDir()
	file := filepath.Join(dir, "Order.php")
	if err := os.WriteFile(file, []byte("<?php"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing file", file, true},
		{"directory", dir, false},
		{"missing", filepath.Join(dir, "Gone.php"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exists, err := helper.FileExists(tt.path)
			if err != nil {
				t.Fatalf("FileExists failed: %v", err)
			}
			if exists != tt.want {
				t.Errorf("FileExists(%s) = %v, want %v", tt.path, exists, tt.want)
			}
		})
	}
}

func TestResolveFilePaths(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"a/One.php": "<?php",
		"a/Two.php": "<?php",
	})
	helper := NewFileHelper()

	direct := []string{filepath.Join(root, "a", "Two.php")}
	files, err := ResolveFilePaths(helper, direct, true, nil, nil, false)
	if err != nil {
		t.Fatalf("ResolveFilePaths failed: %v", err)
	}
	if len(files) != 1 || files[0] != direct[0] {
		t.Errorf("Existing files should be returned as is, got %v", files)
	}

	files, err = ResolveFilePaths(helper, []string{root}, true, []string{"**/*.php"}, nil, false)
	if err != nil {
		t.Fatalf("ResolveFilePaths failed: %v", err)
	}
	if len(files) != 2 {
		t.Errorf("Expected 2 files from the directory, got %v", files)
	}
}

// fakeService records the request it is given
type fakeService struct {
	req      domain.ArchitectureRequest
	resp     *domain.ArchitectureResponse
	report   *domain.ArchitectureReport
	err      error
	analyzed int
}

func (s *fakeService) Analyze(_ context.Context, req domain.ArchitectureRequest) (*domain.ArchitectureResponse, error) {
	s.req = req
	s.analyzed++
	return s.resp, s.err
}

func (s *fakeService) Report(_ context.Context, req domain.ArchitectureRequest) (*domain.ArchitectureReport, error) {
	s.req = req
	return s.report, s.err
}

// recordingFormatter notes which writer was used
type recordingFormatter struct {
	calls []string
	err   error
}

func (f *recordingFormatter) WriteCheck(result *domain.CheckResult, format domain.OutputFormat, w io.Writer) error {
	f.calls = append(f.calls, "check:"+string(format))
	io.WriteString(w, "check")
	return f.err
}

func (f *recordingFormatter) WriteReport(report *domain.ArchitectureReport, format domain.OutputFormat, w io.Writer) error {
	f.calls = append(f.calls, "report:"+string(format))
	return f.err
}

func (f *recordingFormatter) WriteGraph(resp *domain.ArchitectureResponse, format domain.OutputFormat, w io.Writer) error {
	f.calls = append(f.calls, "graph:"+string(format))
	return f.err
}

func projectRequest(t *testing.T) domain.ArchitectureRequest {
	t.Helper()
	root := t.TempDir()
	testutil.WriteFiles(t, root, testutil.DomainProject())
	return domain.ArchitectureRequest{
		Paths:           []string{root},
		Recursive:       true,
		IncludePatterns: []string{"**/*.php"},
	}
}

func TestArchitectureUseCase_Check(t *testing.T) {
	svc := &fakeService{resp: &domain.ArchitectureResponse{
		Violations: []domain.Violation{domain.NewMissingTagViolation(`App\Clock`)},
	}}
	formatter := &recordingFormatter{}
	uc := NewArchitectureUseCase(svc, formatter)

	var buf bytes.Buffer
	result, err := uc.Check(context.Background(), projectRequest(t), domain.OutputFormatJSON, &buf)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	if len(svc.req.Files) != 7 {
		t.Errorf("Expected 7 resolved files, got %d", len(svc.req.Files))
	}
	if result.Passed || result.ExitCode != 1 {
		t.Errorf("Violations should fail the check, got %+v", result)
	}
	if len(formatter.calls) != 1 || formatter.calls[0] != "check:json" || buf.String() != "check" {
		t.Errorf("Unexpected formatter calls %v", formatter.calls)
	}
}

func TestArchitectureUseCase_KeepsExplicitFiles(t *testing.T) {
	svc := &fakeService{resp: &domain.ArchitectureResponse{}}
	uc := NewArchitectureUseCase(svc, &recordingFormatter{})

	req := domain.ArchitectureRequest{Files: []string{"a.php", "b.php"}}
	if _, err := uc.Graph(context.Background(), req, domain.OutputFormatDOT, io.Discard); err != nil {
		t.Fatalf("Graph failed: %v", err)
	}
	if strings.Join(svc.req.Files, ",") != "a.php,b.php" {
		t.Errorf("Explicit files should pass through, got %v", svc.req.Files)
	}
}

func TestArchitectureUseCase_Report(t *testing.T) {
	svc := &fakeService{report: &domain.ArchitectureReport{Forbidden: []string{}}}
	formatter := &recordingFormatter{}
	uc := NewArchitectureUseCase(svc, formatter)

	report, err := uc.Report(context.Background(), projectRequest(t), domain.OutputFormatText, io.Discard)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if report != svc.report || formatter.calls[0] != "report:text" {
		t.Errorf("Report should be rendered as text, got %v", formatter.calls)
	}
	if svc.analyzed != 0 {
		t.Error("Report should not run the check")
	}
}

func TestArchitectureUseCase_Errors(t *testing.T) {
	serviceErr := domain.NewStructureError("two namespaces")

	tests := []struct {
		name     string
		svc      *fakeService
		fmtErr   error
		req      func(t *testing.T) domain.ArchitectureRequest
		wantCode string
		wantErr  error
	}{
		{
			name:     "no paths",
			svc:      &fakeService{},
			req:      func(*testing.T) domain.ArchitectureRequest { return domain.ArchitectureRequest{} },
			wantCode: domain.ErrCodeInvalidInput,
		},
		{
			name: "no php files",
			svc:  &fakeService{},
			req: func(t *testing.T) domain.ArchitectureRequest {
				return domain.ArchitectureRequest{Paths: []string{t.TempDir()}, Recursive: true}
			},
			wantCode: domain.ErrCodeInvalidInput,
		},
		{
			name: "missing path",
			svc:  &fakeService{},
			req: func(t *testing.T) domain.ArchitectureRequest {
				return domain.ArchitectureRequest{Paths: []string{filepath.Join(t.TempDir(), "gone")}}
			},
			wantCode: domain.ErrCodeFileNotFound,
		},
		{
			name:    "service error is returned unchanged",
			svc:     &fakeService{err: serviceErr},
			req:     projectRequest,
			wantErr: serviceErr,
		},
		{
			name:    "formatter error",
			svc:     &fakeService{resp: &domain.ArchitectureResponse{}},
			fmtErr:  domain.NewUnsupportedFormatError("html"),
			req:     projectRequest,
			wantErr: domain.NewUnsupportedFormatError("html"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewArchitectureUseCase(tt.svc, &recordingFormatter{err: tt.fmtErr})
			_, err := uc.Check(context.Background(), tt.req(t), domain.OutputFormatText, io.Discard)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantCode != "" {
				var domainErr domain.DomainError
				if !errors.As(err, &domainErr) || domainErr.Code != tt.wantCode {
					t.Errorf("expected %s, got %v", tt.wantCode, err)
				}
			}
		})
	}
}

func TestArchitectureUseCaseBuilder(t *testing.T) {
	if _, err := NewArchitectureUseCaseBuilder().Build(); err == nil {
		t.Error("Build without a service should fail")
	}
	if _, err := NewArchitectureUseCaseBuilder().WithService(&fakeService{}).Build(); err == nil {
		t.Error("Build without a formatter should fail")
	}

	uc, err := NewArchitectureUseCaseBuilder().
		WithService(&fakeService{}).
		WithFormatter(&recordingFormatter{}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if uc.fileHelper == nil {
		t.Error("Build should default the file helper")
	}
}
