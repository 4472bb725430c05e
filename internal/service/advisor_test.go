package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"go.uber.org/mock/gomock"

	"email-advisor/internal/advisor"
	"email-advisor/internal/service"
	"email-advisor/internal/service/mocks"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAdvisorService_Process(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdvisor := mocks.NewMockAdvisor(ctrl)
	mockRecorder := mocks.NewMockRecorder(ctrl)
	svc := service.NewAdvisorService(mockAdvisor, mockRecorder, service.Stats{})

	draft := &advisor.Response{Decision: advisor.DecisionAutoSend, ArticleID: "transcript_request", AutoSend: true}
	composeErr := errors.New("composer exploded")

	tests := []struct {
		name         string
		req          service.ProcessRequest
		mockSetup    func()
		wantErr      bool
		checkErrType func(error) bool
	}{
		{
			name: "successful process",
			req: service.ProcessRequest{
				Query:    "  How do I order my transcript?  ",
				Metadata: map[string]string{"student_name": " Alex ", "term": "", "  ": "x"},
			},
			mockSetup: func() {
				mockAdvisor.EXPECT().
					Process(gomock.Any(), "How do I order my transcript?", map[string]string{"student_name": "Alex"}).
					Return(draft, nil)
				mockRecorder.EXPECT().ObserveResponse(draft)
			},
		},
		{
			name: "blank metadata becomes nil",
			req: service.ProcessRequest{
				Query:    "How do I order my transcript?",
				Metadata: map[string]string{"term": "  "},
			},
			mockSetup: func() {
				mockAdvisor.EXPECT().
					Process(gomock.Any(), "How do I order my transcript?", gomock.Nil()).
					Return(draft, nil)
				mockRecorder.EXPECT().ObserveResponse(draft)
			},
		},
		{
			name: "empty query",
			req:  service.ProcessRequest{Query: "   "},
			mockSetup: func() {
				mockRecorder.EXPECT().ObserveFailure("process_validation")
			},
			wantErr: true,
			checkErrType: func(err error) bool {
				var validationErr *service.ValidationError
				return errors.As(err, &validationErr) && validationErr.Field == "query" &&
					errors.Is(err, service.ErrInvalidInput)
			},
		},
		{
			name: "advisor error",
			req:  service.ProcessRequest{Query: "How do I order my transcript?"},
			mockSetup: func() {
				mockAdvisor.EXPECT().
					Process(gomock.Any(), "How do I order my transcript?", gomock.Nil()).
					Return(nil, composeErr)
				mockRecorder.EXPECT().ObserveFailure("process")
			},
			wantErr: true,
			checkErrType: func(err error) bool {
				return errors.Is(err, service.ErrExternalService) && errors.Is(err, composeErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			got, err := svc.Process(context.Background(), tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Process() expected error, got nil")
				}
				if tt.checkErrType != nil && !tt.checkErrType(err) {
					t.Errorf("Process() error type check failed: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Process() unexpected error: %v", err)
			}
			if got != draft {
				t.Errorf("Process() = %+v, want advisor response", got)
			}
		})
	}
}

func TestAdvisorService_Rank(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdvisor := mocks.NewMockAdvisor(ctrl)
	svc := service.NewAdvisorService(mockAdvisor, nil, service.Stats{})

	matches := []advisor.RankedMatch{
		{ArticleID: "a", Confidence: 0.9},
		{ArticleID: "b", Confidence: 0.5},
		{ArticleID: "c", Confidence: 0.1},
	}

	tests := []struct {
		name      string
		req       service.RankRequest
		mockSetup func()
		wantIDs   []string
		wantErr   bool
	}{
		{
			name: "all matches",
			req:  service.RankRequest{Query: "withdraw"},
			mockSetup: func() {
				mockAdvisor.EXPECT().Rank(gomock.Any(), "withdraw").Return(matches)
			},
			wantIDs: []string{"a", "b", "c"},
		},
		{
			name: "limited",
			req:  service.RankRequest{Query: "withdraw", Limit: 2},
			mockSetup: func() {
				mockAdvisor.EXPECT().Rank(gomock.Any(), "withdraw").Return(matches)
			},
			wantIDs: []string{"a", "b"},
		},
		{
			name: "no matches is an empty list",
			req:  service.RankRequest{Query: "parking"},
			mockSetup: func() {
				mockAdvisor.EXPECT().Rank(gomock.Any(), "parking").Return(nil)
			},
			wantIDs: []string{},
		},
		{
			name:      "empty query",
			req:       service.RankRequest{Query: ""},
			mockSetup: func() {},
			wantErr:   true,
		},
		{
			name:      "negative limit",
			req:       service.RankRequest{Query: "withdraw", Limit: -1},
			mockSetup: func() {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			got, err := svc.Rank(context.Background(), tt.req)
			if tt.wantErr {
				if !errors.Is(err, service.ErrInvalidInput) {
					t.Errorf("Rank() error = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Rank() unexpected error: %v", err)
			}
			if got.Matches == nil {
				t.Fatal("Rank() matches should never be nil")
			}
			gotIDs := make([]string, 0, len(got.Matches))
			for _, m := range got.Matches {
				gotIDs = append(gotIDs, m.ArticleID)
			}
			if len(gotIDs) != len(tt.wantIDs) {
				t.Fatalf("Rank() ids = %v, want %v", gotIDs, tt.wantIDs)
			}
			for i := range gotIDs {
				if gotIDs[i] != tt.wantIDs[i] {
					t.Errorf("Rank() ids = %v, want %v", gotIDs, tt.wantIDs)
				}
			}
		})
	}
}

func TestAdvisorService_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	stats := service.Stats{Articles: 5, References: 6, RetrievalEnabled: true}
	svc := service.NewAdvisorService(mocks.NewMockAdvisor(ctrl), nil, stats)

	if got := svc.Stats(context.Background()); got != stats {
		t.Errorf("Stats() = %+v, want %+v", got, stats)
	}
}
