package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ludo-technologies/dddscan/domain"
)

// ArchitectureUseCase orchestrates the check, report and graph workflows:
// file enumeration, the architecture service and output rendering.
type ArchitectureUseCase struct {
	service    domain.ArchitectureService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewArchitectureUseCase creates a new architecture use case
func NewArchitectureUseCase(service domain.ArchitectureService, formatter domain.OutputFormatter) *ArchitectureUseCase {
	return &ArchitectureUseCase{
		service:    service,
		formatter:  formatter,
		fileHelper: NewFileHelper(),
	}
}

// Check analyzes the request paths and writes the check result. Violations
// are reported through the result, not as an error.
func (uc *ArchitectureUseCase) Check(ctx context.Context, req domain.ArchitectureRequest, format domain.OutputFormat, w io.Writer) (*domain.CheckResult, error) {
	req, err := uc.resolve(req)
	if err != nil {
		return nil, err
	}

	resp, err := uc.service.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	result := domain.NewCheckResult(resp)
	if err := uc.formatter.WriteCheck(result, format, w); err != nil {
		return nil, err
	}
	return result, nil
}

// Report categorizes the classes under the request paths and writes the report
func (uc *ArchitectureUseCase) Report(ctx context.Context, req domain.ArchitectureRequest, format domain.OutputFormat, w io.Writer) (*domain.ArchitectureReport, error) {
	req, err := uc.resolve(req)
	if err != nil {
		return nil, err
	}

	report, err := uc.service.Report(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := uc.formatter.WriteReport(report, format, w); err != nil {
		return nil, err
	}
	return report, nil
}

// Graph writes the reduced graph of the request paths
func (uc *ArchitectureUseCase) Graph(ctx context.Context, req domain.ArchitectureRequest, format domain.OutputFormat, w io.Writer) (*domain.ArchitectureResponse, error) {
	req, err := uc.resolve(req)
	if err != nil {
		return nil, err
	}

	resp, err := uc.service.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := uc.formatter.WriteGraph(resp, format, w); err != nil {
		return nil, err
	}
	return resp, nil
}

// resolve fills req.Files from req.Paths unless they are already set
func (uc *ArchitectureUseCase) resolve(req domain.ArchitectureRequest) (domain.ArchitectureRequest, error) {
	if err := uc.validateRequest(req); err != nil {
		return req, domain.NewInvalidInputError("invalid request", err)
	}
	if len(req.Files) > 0 {
		return req, nil
	}

	files, err := ResolveFilePaths(
		uc.fileHelper,
		req.Paths,
		req.Recursive,
		req.IncludePatterns,
		req.ExcludePatterns,
		req.RespectGitignore,
	)
	if err != nil {
		return req, domain.NewFileNotFoundError("failed to collect files", err)
	}
	if len(files) == 0 {
		return req, domain.NewInvalidInputError("no PHP files found in the specified paths", nil)
	}

	req.Files = files
	return req, nil
}

// validateRequest validates the architecture request
func (uc *ArchitectureUseCase) validateRequest(req domain.ArchitectureRequest) error {
	if len(req.Paths) == 0 && len(req.Files) == 0 {
		return fmt.Errorf("no input paths specified")
	}
	if uc.service == nil {
		return fmt.Errorf("architecture service is required")
	}
	if uc.formatter == nil {
		return fmt.Errorf("output formatter is required")
	}
	return nil
}

// ArchitectureUseCaseBuilder provides a builder pattern for creating ArchitectureUseCase
type ArchitectureUseCaseBuilder struct {
	service    domain.ArchitectureService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewArchitectureUseCaseBuilder creates a new builder
func NewArchitectureUseCaseBuilder() *ArchitectureUseCaseBuilder {
	return &ArchitectureUseCaseBuilder{}
}

// WithService sets the architecture service
func (b *ArchitectureUseCaseBuilder) WithService(service domain.ArchitectureService) *ArchitectureUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *ArchitectureUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *ArchitectureUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithFileHelper sets the file helper
func (b *ArchitectureUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *ArchitectureUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// Build creates the ArchitectureUseCase with the configured dependencies
func (b *ArchitectureUseCaseBuilder) Build() (*ArchitectureUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("architecture service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := &ArchitectureUseCase{
		service:    b.service,
		formatter:  b.formatter,
		fileHelper: b.fileHelper,
	}
	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}
	return uc, nil
}
