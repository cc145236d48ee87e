package catalog

import (
	"fmt"
	"testing"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/model"
)

func TestNew(t *testing.T) {
	reg, err := New(Config{MaxURLs: 5})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if reg.Len() != 43 {
		t.Fatalf("Len() = %d, want 43", reg.Len())
	}

	tests := []struct {
		platform model.Platform
		tier     check.Tier
		want     int
	}{
		{model.PlatformMeta, check.TierSync, 23},
		{model.PlatformTikTok, check.TierSync, 21},
		{model.PlatformMulti, check.TierSync, 18},
		{model.PlatformMeta, check.TierAsync, 20},
		{model.PlatformUniversal, check.TierAsync, 18},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s tier %d", tt.platform, tt.tier), func(t *testing.T) {
			if got := len(reg.ChecksFor(tt.platform, tt.tier)); got != tt.want {
				t.Errorf("ChecksFor(%s, %d) = %d, want %d", tt.platform, tt.tier, got, tt.want)
			}
		})
	}
}
