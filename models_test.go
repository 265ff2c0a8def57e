package verdict

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestModelsServiceList(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" || r.URL.Path != "/models" {
			t.Errorf("request = %s %s, want GET /models", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(listModelsResponse{Models: []Model{
			{ID: "m-1", Name: "gpt-4", Provider: "openai"},
			{ID: "m-2", Name: "claude-3", Provider: "anthropic"},
		}})
	})
	svc := &ModelsService{api: newTestAPI(t, handler)}

	models, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(models) != 2 || models[0].Provider != "openai" {
		t.Errorf("models = %+v", models)
	}
}

func TestMetricsServiceList(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" || r.URL.Path != "/metrics" {
			t.Errorf("request = %s %s, want GET /metrics", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(listMetricsResponse{Metrics: []Metric{
			{ID: "met-1", Name: "accuracy"},
		}})
	})
	svc := &MetricsService{api: newTestAPI(t, handler)}

	metrics, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metrics) != 1 || metrics[0].Name != "accuracy" {
		t.Errorf("metrics = %+v", metrics)
	}
}
