package tools

import "runtime"

// ffprobe ships with ffmpeg everywhere, so both share one set of hints.
func installHints(tool string) []string {
	if tool != "ffmpeg" && tool != "ffprobe" {
		return nil
	}

	switch runtime.GOOS {
	case "darwin":
		return []string{"brew install ffmpeg"}
	case "linux":
		return []string{"install ffmpeg with your package manager, e.g. sudo apt install ffmpeg"}
	case "windows":
		return []string{"winget install Gyan.FFmpeg", "choco install ffmpeg"}
	default:
		return []string{"install ffmpeg using your platform's package manager"}
	}
}
