package main

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	platformevents "github.com/strandhvilliam/vimmer-sub007/internal/events"
	"github.com/strandhvilliam/vimmer-sub007/internal/jobs"
	"github.com/strandhvilliam/vimmer-sub007/internal/jobstore"
	"github.com/strandhvilliam/vimmer-sub007/internal/metrics"
)

// maxZipBytes caps a single export bundle. Marathons with hundreds of
// participants produce tens of gigabytes of originals; bounded bundles keep
// individual downloads resumable and the Lambda within its /tmp allowance.
const maxZipBytes int64 = 500 * 1024 * 1024

// downloadURLTTL is the validity of presigned bundle URLs. Jobs expire from
// DynamoDB after 24 hours, so organizers re-run the export for fresh links.
const downloadURLTTL = time.Hour

// fileWithSize holds a submission key, its archive entry path and its object
// size (from HeadObject).
type fileWithSize struct {
	key   string
	entry string
	size  int64
}

// runExportJob bundles all uploaded submissions for a domain into ZIP files
// and records progress on the DynamoDB job as each bundle finishes.
func runExportJob(ctx context.Context, domain, jobID string) {
	job, err := exportJobs.GetExportJob(ctx, domain, jobID)
	if err != nil || job == nil {
		log.Error().Err(err).Str("jobId", jobID).Msg("Export job record missing")
		return
	}

	start := time.Now()
	job.Status = jobstore.ExportProcessing
	if err := exportJobs.PutExportJob(ctx, domain, job); err != nil {
		log.Error().Err(err).Str("jobId", jobID).Msg("Failed to mark export processing")
		return
	}

	subs, err := pg.Submissions.ListExportFiles(ctx, domain)
	if err != nil {
		failExport(ctx, domain, jobID, "failed to list submissions")
		return
	}
	if len(subs) == 0 {
		failExport(ctx, domain, jobID, "no uploaded submissions to export")
		return
	}

	// Size every original up front so bundles can be planned before any
	// bytes move. Objects that fail HeadObject are skipped, not fatal.
	var files []fileWithSize
	for _, sub := range subs {
		head, err := s3Client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: &storageCfg.SubmissionBucket,
			Key:    &sub.Key,
		})
		if err != nil {
			log.Warn().Err(err).Str("key", sub.Key).Msg("HeadObject failed, skipping file")
			continue
		}
		files = append(files, fileWithSize{
			key:   sub.Key,
			entry: archiveEntry(sub.ClassName, sub.Key),
			size:  aws.ToInt64(head.ContentLength),
		})
	}
	if len(files) == 0 {
		failExport(ctx, domain, jobID, "no exportable objects found")
		return
	}

	groups := groupBySize(files, maxZipBytes)

	job.Bundles = make([]jobstore.ExportBundle, len(groups))
	for i, group := range groups {
		var totalSize int64
		for _, f := range group {
			totalSize += f.size
		}
		job.Bundles[i] = jobstore.ExportBundle{
			Name:      fmt.Sprintf("%s-submissions-%d.zip", domain, i+1),
			FileCount: len(group),
			TotalSize: totalSize,
			Status:    jobstore.ExportPending,
		}
	}
	if err := exportJobs.PutExportJob(ctx, domain, job); err != nil {
		log.Error().Err(err).Str("jobId", jobID).Msg("Failed to record bundle plan")
		return
	}

	log.Info().
		Str("jobId", jobID).
		Int("files", len(files)).
		Int("bundles", len(groups)).
		Msg("Export bundle plan created")

	totalFiles := 0
	for i, group := range groups {
		job.Bundles[i].Status = jobstore.ExportProcessing
		exportJobs.PutExportJob(ctx, domain, job)

		zipKey := path.Join(domain, "exports", jobID, job.Bundles[i].Name)
		if err := createZipBundle(ctx, group, zipKey); err != nil {
			log.Error().Err(err).Str("bundle", job.Bundles[i].Name).Msg("Failed to create export bundle")
			job.Bundles[i].Status = jobstore.ExportError
			exportJobs.PutExportJob(ctx, domain, job)
			continue
		}

		presigned, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket:                     &storageCfg.ExportsBucket,
			Key:                        &zipKey,
			ResponseContentDisposition: aws.String(fmt.Sprintf(`attachment; filename="%s"`, job.Bundles[i].Name)),
		}, s3.WithPresignExpires(downloadURLTTL))
		if err != nil {
			log.Error().Err(err).Str("key", zipKey).Msg("Failed to presign bundle URL")
			job.Bundles[i].Status = jobstore.ExportError
			exportJobs.PutExportJob(ctx, domain, job)
			continue
		}

		job.Bundles[i].Key = zipKey
		job.Bundles[i].DownloadURL = presigned.URL
		job.Bundles[i].Status = jobstore.ExportComplete
		totalFiles += job.Bundles[i].FileCount
		exportJobs.PutExportJob(ctx, domain, job)

		log.Info().
			Str("bundle", job.Bundles[i].Name).
			Int("files", job.Bundles[i].FileCount).
			Msg("Export bundle created")
	}

	job.Status = jobstore.ExportComplete
	for _, b := range job.Bundles {
		if b.Status == jobstore.ExportError {
			job.Status = jobstore.ExportError
			job.Error = "one or more bundles failed"
			break
		}
	}
	if err := exportJobs.PutExportJob(ctx, domain, job); err != nil {
		log.Error().Err(err).Str("jobId", jobID).Msg("Failed to finalize export job")
		return
	}

	if job.Status == jobstore.ExportComplete {
		if err := emitter.Emit(ctx, platformevents.TypeExportCompleted, platformevents.ExportCompleted{
			Domain:    domain,
			JobID:     jobID,
			Bundles:   len(job.Bundles),
			FileCount: totalFiles,
		}); err != nil {
			log.Warn().Err(err).Str("jobId", jobID).Msg("Failed to emit export event")
		}
	}

	metrics.New().
		Dimension("Operation", "Export").
		Count("ExportsRun").
		Metric("ExportBundles", float64(len(job.Bundles)), metrics.UnitCount).
		Metric("ExportFiles", float64(totalFiles), metrics.UnitCount).
		Duration("ExportLatency", time.Since(start)).
		Property("domain", domain).
		Flush()

	log.Info().
		Str("jobId", jobID).
		Str("status", job.Status).
		Dur("elapsed", time.Since(start)).
		Msg("Export job finished")
}

func failExport(ctx context.Context, domain, jobID, msg string) {
	if err := jobs.SetJobError(ctx, domain, jobID, msg, exportJobs.SetExportError); err != nil {
		log.Error().Err(err).Str("jobId", jobID).Msg("Failed to record export error")
	}
}

// groupBySize packs files into groups whose total size stays within maxBytes,
// using first-fit-decreasing. A file larger than maxBytes gets its own group.
func groupBySize(files []fileWithSize, maxBytes int64) [][]fileWithSize {
	if len(files) == 0 {
		return nil
	}

	sorted := make([]fileWithSize, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].size > sorted[j].size
	})

	var groups [][]fileWithSize
	var groupSizes []int64

	for _, f := range sorted {
		if f.size > maxBytes {
			groups = append(groups, []fileWithSize{f})
			groupSizes = append(groupSizes, f.size)
			continue
		}

		placed := false
		for i, current := range groupSizes {
			if current+f.size <= maxBytes {
				groups[i] = append(groups[i], f)
				groupSizes[i] += f.size
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []fileWithSize{f})
			groupSizes = append(groupSizes, f.size)
		}
	}

	return groups
}

// archiveEntry builds the in-ZIP path for a submission: one folder per
// competition class, with the key's filename inside. Filenames carry the
// padded reference and index, so they stay unique within a folder.
func archiveEntry(className, key string) string {
	folder := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '-'
		}
		return r
	}, className)
	if folder == "" {
		return path.Base(key)
	}
	return path.Join(folder, path.Base(key))
}

// createZipBundle streams originals from S3 into a zstd-compressed ZIP in
// /tmp and uploads it to the exports bucket.
func createZipBundle(ctx context.Context, files []fileWithSize, zipKey string) error {
	tmpFile, err := os.CreateTemp("", "export-*.zip")
	if err != nil {
		return fmt.Errorf("create temp ZIP: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	zipWriter := zip.NewWriter(tmpFile)

	for _, file := range files {
		getResult, err := s3Client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: &storageCfg.SubmissionBucket,
			Key:    &file.key,
		})
		if err != nil {
			log.Warn().Err(err).Str("key", file.key).Msg("Failed to download file for ZIP, skipping")
			continue
		}

		header := &zip.FileHeader{
			Name:     file.entry,
			Method:   zipMethodZstd,
			Modified: time.Now(),
		}

		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			getResult.Body.Close()
			return fmt.Errorf("create ZIP entry for %s: %w", file.key, err)
		}
		if _, err := io.Copy(writer, getResult.Body); err != nil {
			getResult.Body.Close()
			return fmt.Errorf("write ZIP entry for %s: %w", file.key, err)
		}
		getResult.Body.Close()
	}

	if err := zipWriter.Close(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("close ZIP writer: %w", err)
	}
	tmpFile.Close()

	zipFile, err := os.Open(tmpPath)
	if err != nil {
		return fmt.Errorf("open ZIP for upload: %w", err)
	}
	defer zipFile.Close()

	contentType := "application/zip"
	_, err = s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &storageCfg.ExportsBucket,
		Key:         &zipKey,
		Body:        zipFile,
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("upload ZIP: %w", err)
	}
	return nil
}
