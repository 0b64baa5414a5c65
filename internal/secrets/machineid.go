package secrets

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// MachineIDFunc returns the stable machine identifier the file store derives
// its encryption key from. Overridable for tests (see SetMachineIDFunc).
var machineIDFunc = readMachineID

// SetMachineIDFunc allows tests to inject a machine identifier.
// Passing nil resets to the default.
func SetMachineIDFunc(fn func() string) {
	if fn == nil {
		machineIDFunc = readMachineID
	} else {
		machineIDFunc = fn
	}
}

// readMachineID returns a best-effort stable identifier for this machine.
// Checks the systemd and dbus machine-id files, the IOKit platform UUID on
// macOS, and finally falls back to hostname plus user so the file store
// still works on exotic platforms.
func readMachineID() string {
	for _, path := range []string{"/etc/machine-id", "/var/lib/dbus/machine-id"} {
		if data, err := os.ReadFile(path); err == nil {
			if id := strings.TrimSpace(string(data)); id != "" {
				return id
			}
		}
	}

	if runtime.GOOS == "darwin" {
		if id := darwinPlatformUUID(); id != "" {
			return id
		}
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown-host"
	}
	user := os.Getenv("USER")
	if user == "" {
		user = os.Getenv("USERNAME")
	}
	return hostname + "-" + user
}

func darwinPlatformUUID() string {
	out, err := exec.Command("ioreg", "-d2", "-c", "IOPlatformExpertDevice").Output()
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.Contains(line, "IOPlatformUUID") {
			continue
		}
		parts := strings.Split(line, "\"")
		// Format: "IOPlatformUUID" = "XXXX-..."; the UUID is the last
		// quoted field.
		if len(parts) >= 4 {
			return parts[len(parts)-2]
		}
	}
	return ""
}
