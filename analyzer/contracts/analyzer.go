package contracts

import "docai/analyzer/models"

// IProjectAnalyzer builds the corpus document for a project tree.
type IProjectAnalyzer interface {
	AnalyzeProject() (*models.ProjectAnalysis, error)
	SaveAnalysis(analysis *models.ProjectAnalysis, outputPath string) error
	ClearCache() error
	CacheStats() (files int, totalSize int64, err error)
}
