package config

import "testing"

func TestLoadRetrievalDefaults(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "")
	t.Setenv("RETRIEVAL_TIMEOUT_SECONDS", "")
	t.Setenv("GEN_TIMEOUT_SECONDS", "")
	t.Setenv("QDRANT_COLLECTION", "")

	cfg := Load()
	if cfg.RetrievalTopK != 5 {
		t.Fatalf("expected default top k 5, got %d", cfg.RetrievalTopK)
	}
	if cfg.RetrievalTimeoutSeconds != 15 {
		t.Fatalf("expected default retrieval timeout 15, got %d", cfg.RetrievalTimeoutSeconds)
	}
	if cfg.GenTimeoutSeconds != 30 {
		t.Fatalf("expected default generation timeout 30, got %d", cfg.GenTimeoutSeconds)
	}
	if cfg.QdrantCollection != "troubleshooting_records" {
		t.Fatalf("expected default collection, got %q", cfg.QdrantCollection)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "8")
	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("API_MAX_CONCURRENT", "4")
	t.Setenv("CHECKLIST_PATH", "/etc/nta/checklist.yaml")

	cfg := Load()
	if cfg.RetrievalTopK != 8 {
		t.Fatalf("expected top k 8, got %d", cfg.RetrievalTopK)
	}
	if cfg.APIRateLimitRPS != 2.5 {
		t.Fatalf("expected rate limit 2.5, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.APIMaxConcurrent != 4 {
		t.Fatalf("expected max concurrent 4, got %d", cfg.APIMaxConcurrent)
	}
	if cfg.ChecklistPath != "/etc/nta/checklist.yaml" {
		t.Fatalf("expected checklist path override, got %q", cfg.ChecklistPath)
	}
}

func TestLoadMalformedNumbersFallBack(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "lots")
	t.Setenv("API_RATE_LIMIT_RPS", "fast")

	cfg := Load()
	if cfg.RetrievalTopK != 5 {
		t.Fatalf("expected fallback top k 5, got %d", cfg.RetrievalTopK)
	}
	if cfg.APIRateLimitRPS != 20 {
		t.Fatalf("expected fallback rate limit 20, got %v", cfg.APIRateLimitRPS)
	}
}
