package enforcement

import (
	"crypto/sha256"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedProfileIntegrity(t *testing.T) {
	// 1. Ensure the embedded slice is not empty
	if len(VendorProfiles) == 0 {
		t.Fatal("Embedded profile data is empty. Did the build fail to include 'vendor_profiles.yaml'?")
	}

	// 2. Ensure it is valid YAML (The 'Verify' step)
	var dump map[string]interface{}
	if err := yaml.Unmarshal(VendorProfiles, &dump); err != nil {
		t.Fatalf("Embedded data is not valid YAML: %v", err)
	}

	// 3. Ensure we can calculate a hash (The 'Verify' command logic)
	hash := sha256.Sum256(VendorProfiles)
	if len(hash) != 32 {
		t.Errorf("Hash calculation failed, expected 32 bytes, got %d", len(hash))
	}
	t.Logf("Current Profile Hash: %x", hash)

	// 4. Test if the profile file is too short to hold any vendor
	if len(VendorProfiles) < 30 {
		t.Fatal("there are no vendor profiles")
	}
	t.Logf("Embedded vendor profile data size > 0: %d bytes", len(VendorProfiles))
}
