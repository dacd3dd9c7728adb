package validator

import (
	"testing"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
)

func TestValidateBatch_OnlySuppliedTiers(t *testing.T) {
	v := New(false)

	verdict := v.ValidateBatch(map[models.Tier]string{
		models.TierShort:  "Network routing configuration for traffic distribution",
		models.TierMedium: "Network routing configuration for distributing traffic across gateway clusters. Policies control failover behavior during outages.",
	}, "")

	if verdict.TotalCount() != 2 {
		t.Fatalf("Expected 2 results, got %d", verdict.TotalCount())
	}
	if _, ok := verdict.Results[models.TierLong]; ok {
		t.Error("Absent tier must not be fabricated in the result")
	}
	if verdict.ValidCount() != 2 {
		t.Errorf("Expected 2 valid, got %d", verdict.ValidCount())
	}
	if !verdict.AllValid() {
		t.Error("Expected all supplied tiers valid")
	}
}

func TestValidateBatch_SkipsEmptyValues(t *testing.T) {
	v := New(false)

	verdict := v.ValidateBatch(map[models.Tier]string{
		models.TierShort: "",
		models.TierLong:  "Short text",
	}, "")

	if verdict.TotalCount() != 1 {
		t.Fatalf("Expected only the long tier, got %d results", verdict.TotalCount())
	}
	long, ok := verdict.Results[models.TierLong]
	if !ok {
		t.Fatal("Expected long tier verdict")
	}
	if long.IsValid {
		t.Error("Expected long tier to fail its band")
	}
}

func TestValidateBatch_IgnoresUnknownTierKeys(t *testing.T) {
	v := New(false)

	verdict := v.ValidateBatch(map[models.Tier]string{
		models.Tier("extra"): "Some stray text",
		models.TierShort:     "Network routing configuration for traffic distribution",
	}, "")

	if verdict.TotalCount() != 1 {
		t.Fatalf("Expected only fixed tiers in the result, got %d", verdict.TotalCount())
	}
}

func TestValidateBatch_PassesSubjectThrough(t *testing.T) {
	v := New(false)

	verdict := v.ValidateBatch(map[models.Tier]string{
		models.TierShort: "Network config settings for routing behavior",
	}, "network_config")

	short := verdict.Results[models.TierShort]
	if short.IsValid {
		t.Error("Expected circular-definition failure")
	}
	if !hasEntry(short.Errors, "Circular definition") {
		t.Errorf("Expected circular-definition error, got %v", short.Errors)
	}
}

func TestValidateBatch_EmptyInput(t *testing.T) {
	v := New(false)

	verdict := v.ValidateBatch(map[models.Tier]string{}, "")

	if verdict.TotalCount() != 0 {
		t.Errorf("Expected empty result, got %d", verdict.TotalCount())
	}
	if !verdict.AllValid() {
		t.Error("Empty batch is vacuously valid")
	}
}
