//go:build !release

package resources

const configDir = ".portasound"

func resourcePath() (string, error) {
	return configDir, nil
}
