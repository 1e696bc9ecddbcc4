package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const (
	defaultRegion      = "europe-west1"
	defaultDetectModel = "gemini-2.5-flash"

	// Detection is slow on large images; give the backend minutes, not
	// seconds.
	detectTimeout = 3 * time.Minute
)

// Detector lifecycle errors.
var (
	ErrDetectorNotReady    = errors.New("detection model is still loading")
	ErrUpstreamUnavailable = errors.New("recognition backend unavailable")
)

// DetectorStatus reports how far along the backend warm-up is.
type DetectorStatus string

const (
	DetectorAbsent        DetectorStatus = "absent"
	DetectorUninitialized DetectorStatus = "uninitialized"
	DetectorLoading       DetectorStatus = "loading"
	DetectorReady         DetectorStatus = "ready"
)

// Detector extracts labeled rectangles from an image and returns them as
// a detection batch: a reference record carrying the image dimensions,
// then one item per detected shape.
type Detector interface {
	Status() DetectorStatus
	Preload()
	Detect(ctx context.Context, imageData []byte, mimeType string) ([]DetectedItem, error)
}

const detectPrompt = `Detect every labeled rectangular shape in this image.

Respond with a JSON array. The FIRST element describes the whole image:
{"name": "Original", "text": "Original", "position": {"x": 0, "y": 0}, "width": <image width in pixels>, "height": <image height in pixels>}

Every following element describes one detected rectangle:
{"name": "<Square or Rectangle plus index, e.g. Rectangle0>", "text": "<text read inside the shape, empty string if none>", "position": {"x": <top-left x in pixels>, "y": <top-left y in pixels>}, "width": <pixels>, "height": <pixels>, "direction": "<Up, Down, Left or Right, the way an arrow inside the shape points, Up if there is none>", "confidence": <0.0 to 1.0>}

Rules:
- Only report shapes with four corners (squares and rectangles).
- Positions are pixel coordinates in the original image.
- Respond ONLY with the JSON array, no commentary and no markdown.`

// GeminiDetector implements Detector on top of Gemini using Application
// Default Credentials. The client is created lazily so the service can
// come up before the backend is reachable; Status/Preload expose the
// warm-up to callers the way the original OCR backend did.
type GeminiDetector struct {
	projectID string
	region    string
	modelName string

	mu      sync.Mutex
	client  *genai.Client
	loading bool
}

// NewGeminiDetector configures a detector without touching the network.
func NewGeminiDetector(projectID, region, modelName string) *GeminiDetector {
	if region == "" {
		region = defaultRegion
	}
	if modelName == "" {
		modelName = defaultDetectModel
	}
	return &GeminiDetector{
		projectID: projectID,
		region:    region,
		modelName: modelName,
	}
}

// Status returns the current warm-up state.
func (d *GeminiDetector) Status() DetectorStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.client != nil:
		return DetectorReady
	case d.loading:
		return DetectorLoading
	default:
		return DetectorUninitialized
	}
}

// Preload starts client initialization in the background. Calling it
// again while loading or after readiness is a no-op.
func (d *GeminiDetector) Preload() {
	d.mu.Lock()
	if d.client != nil || d.loading {
		d.mu.Unlock()
		return
	}
	d.loading = true
	d.mu.Unlock()

	go func() {
		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			Project:  d.projectID,
			Location: d.region,
			Backend:  genai.BackendVertexAI,
		})

		d.mu.Lock()
		d.loading = false
		if err != nil {
			log.WithError(err).Error("detector init failed")
		} else {
			d.client = client
		}
		d.mu.Unlock()
	}()
}

// Detect runs shape and text detection on an image. While the client is
// still warming up it kicks the warm-up and returns ErrDetectorNotReady
// so callers can retry shortly.
func (d *GeminiDetector) Detect(ctx context.Context, imageData []byte, mimeType string) ([]DetectedItem, error) {
	d.mu.Lock()
	client := d.client
	d.mu.Unlock()

	if client == nil {
		d.Preload()
		return nil, ErrDetectorNotReady
	}

	ctx, cancel := context.WithTimeout(ctx, detectTimeout)
	defer cancel()

	resp, err := client.Models.GenerateContent(ctx, d.modelName,
		[]*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{
				{Text: detectPrompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: imageData}},
			},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.1)),
			TopP:             genai.Ptr(float32(1)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", ErrUpstreamUnavailable)
	}
	return parseDetectionBatch([]byte(text))
}

// parseDetectionBatch decodes a detection batch and checks that the
// reference record is usable.
func parseDetectionBatch(data []byte) ([]DetectedItem, error) {
	var batch []DetectedItem
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse detection batch: %w\nraw response: %s", err, data)
	}
	if len(batch) == 0 {
		return nil, fmt.Errorf("empty detection batch: %w", ErrInvalidBatch)
	}
	if batch[0].Width <= 0 || batch[0].Height <= 0 {
		return nil, fmt.Errorf("reference record %dx%d: %w", batch[0].Width, batch[0].Height, ErrInvalidSource)
	}
	return batch, nil
}

// WaitReady polls the detector at a fixed interval until it reports
// ready or ctx expires.
func WaitReady(ctx context.Context, d Detector, interval time.Duration) error {
	if d.Status() == DetectorReady {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, ctx.Err())
		case <-ticker.C:
			if d.Status() == DetectorReady {
				return nil
			}
		}
	}
}
