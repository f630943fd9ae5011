package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// QuestionIndex is the vector index over company bank questions. It backs
// near-duplicate detection on import and semantic lookup of similar
// questions.
type QuestionIndex interface {
	InitCollection() error
	UpsertQuestion(ctx context.Context, questionID, companyID, text string, embedding []float32) error
	SearchSimilar(ctx context.Context, embedding []float32, companyID string, limit int) ([]QuestionMatch, error)
	DeleteQuestion(ctx context.Context, questionID string) error
}

type QuestionMatch struct {
	QuestionID string
	CompanyID  string
	Score      float32
	Text       string
}

type questionIndex struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQuestionIndex(urlStr, apiKey, collectionName string) (QuestionIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port, not the REST one
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &questionIndex{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 output size
	}, nil
}

// InitCollection implements QuestionIndex.
func (q *questionIndex) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Println("✅ Question index collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// UpsertQuestion implements QuestionIndex.
func (q *questionIndex) UpsertQuestion(ctx context.Context, questionID, companyID, text string, embedding []float32) error {
	pointID := uuid.New()

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(pointID.ID())),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"question_id": questionID,
			"company_id":  companyID,
			"text":        text,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert point: %w", err)
	}

	return nil
}

// SearchSimilar implements QuestionIndex. A non-empty companyID restricts the
// search to that company's questions.
func (q *questionIndex) SearchSimilar(ctx context.Context, embedding []float32, companyID string, limit int) ([]QuestionMatch, error) {
	var filter *qdrant.Filter
	if companyID != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("company_id", companyID),
			},
		}
	}

	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	var matches []QuestionMatch
	for _, point := range searchResult {
		payload := point.Payload

		match := QuestionMatch{
			Score: point.Score,
		}

		if qid, ok := payload["question_id"]; ok {
			if val, ok := qid.GetKind().(*qdrant.Value_StringValue); ok {
				match.QuestionID = val.StringValue
			}
		}

		if cid, ok := payload["company_id"]; ok {
			if val, ok := cid.GetKind().(*qdrant.Value_StringValue); ok {
				match.CompanyID = val.StringValue
			}
		}

		if text, ok := payload["text"]; ok {
			if val, ok := text.GetKind().(*qdrant.Value_StringValue); ok {
				match.Text = val.StringValue
			}
		}

		matches = append(matches, match)
	}

	return matches, nil
}

// DeleteQuestion implements QuestionIndex.
func (q *questionIndex) DeleteQuestion(ctx context.Context, questionID string) error {
	filter := &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("question_id", questionID),
		},
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: filter,
			},
		},
	})

	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}

	return nil
}
