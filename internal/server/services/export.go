package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/janusipm/brandvigilante/internal/logging"
	sc "github.com/janusipm/brandvigilante/internal/server/config"
	"github.com/janusipm/brandvigilante/internal/server/models"
	"github.com/janusipm/brandvigilante/internal/server/repositories/repomanager"
	"github.com/janusipm/brandvigilante/internal/timex"
)

// ExportLinkTTL is how long both presigned URLs of an export stay valid.
const ExportLinkTTL = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Uploader sends a body to a presigned PUT URL.
type Uploader interface {
	PutPresigned(ctx context.Context, url, contentType string, body []byte) error
}

// ExportResult points at an uploaded CSV through a presigned URL.
type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Rows      int       `json:"rows"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ExportService renders listings as CSV and hands the file out through
// S3-compatible object storage.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	uploader    Uploader
	clock       timex.Clock
	log         logging.Logger
}

// NewExportService wires the service. The bucket and presign settings
// come from cfg; a nil clock means wall time.
func NewExportService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config, uploader Uploader, clock timex.Clock, log logging.Logger) *ExportService {
	if clock == nil {
		clock = timex.SystemClock{}
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &ExportService{db: db, repomanager: m, config: cfg, uploader: uploader, clock: clock, log: log}
}

// ExportKey is the object key for an export made at now.
func ExportKey(now time.Time) string {
	return fmt.Sprintf("exports/listings/%d/%02d/%02d/%v.csv", now.Year(), now.Month(), now.Day(), uuid.New())
}

func (s *ExportService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return newS3PresignClient(client), nil
}

// ExportListings writes every listing matching filter (paging is ignored)
// to a new object and returns a download link.
func (s *ExportService) ExportListings(ctx context.Context, filter models.ListingFilter) (*ExportResult, error) {
	body, rows, err := s.renderCSV(ctx, filter)
	if err != nil {
		return nil, err
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error configuring object storage: %w", err)
	}

	bucket := s.config.S3Bucket
	key := ExportKey(s.clock.Now())
	contentType := "text/csv"

	put, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(ExportLinkTTL))
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}
	if err := s.uploader.PutPresigned(ctx, put.URL, contentType, body); err != nil {
		return nil, fmt.Errorf("error uploading export: %w", err)
	}

	get, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(ExportLinkTTL))
	if err != nil {
		return nil, fmt.Errorf("error presigning download: %w", err)
	}

	s.log.Info(ctx, "listings exported", "key", key, "rows", rows)
	return &ExportResult{Key: key, URL: get.URL, Rows: rows, ExpiresAt: s.clock.Now().Add(ExportLinkTTL)}, nil
}

// RenderCSV returns the CSV body ExportListings would upload, for callers
// that keep the file locally.
func (s *ExportService) RenderCSV(ctx context.Context, filter models.ListingFilter) ([]byte, int, error) {
	return s.renderCSV(ctx, filter)
}

var exportHeader = []string{
	"id", "url", "product_title", "upc", "ean", "marketplace", "country",
	"seller", "buybox_winner", "external_id", "brand_tmterm_ids", "created_at",
}

func (s *ExportService) renderCSV(ctx context.Context, filter models.ListingFilter) ([]byte, int, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, 0, err
	}

	repo := s.repomanager.Listings(s.db)
	filter.PerPage = models.MaxPerPage
	rows := 0
	for page := 1; ; page++ {
		filter.Page = page
		p, err := repo.List(ctx, filter)
		if err != nil {
			return nil, 0, fmt.Errorf("error reading listings: %w", err)
		}
		for _, l := range p.Items {
			if err := w.Write(exportRecord(l)); err != nil {
				return nil, 0, err
			}
			rows++
		}
		if len(p.Items) == 0 || page >= p.TotalPages {
			break
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), rows, nil
}

func exportRecord(l *models.ListingDetail) []string {
	ids := make([]string, len(l.BrandTmtermIDs))
	for i, id := range l.BrandTmtermIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return []string{
		strconv.FormatInt(l.ID, 10),
		l.URL,
		l.ProductTitle,
		deref(l.ProductUPC),
		deref(l.ProductEAN),
		l.MarketplaceName,
		l.MarketplaceCountry,
		deref(l.SellerName),
		strconv.FormatBool(l.IsBuyboxWinner),
		deref(l.ExternalID),
		strings.Join(ids, ";"),
		l.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
