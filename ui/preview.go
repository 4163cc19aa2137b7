package ui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// previewTools are the terminal image renderers we can drive, in preference
// order. chafa gives the best quality in plain terminals.
var previewTools = []string{"chafa", "viu", "kitty"}

// PreviewTool returns the first available terminal image renderer, or empty
// when none is installed.
func PreviewTool() string {
	for _, tool := range previewTools {
		if _, err := exec.LookPath(tool); err == nil {
			return tool
		}
	}
	return ""
}

// renderCommand is the shell fragment that draws $fullpath with tool,
// sized for the fzf preview pane.
func renderCommand(tool string) string {
	switch tool {
	case "viu":
		return `viu -t "$fullpath" 2>/dev/null`
	case "kitty":
		return `kitty +kitten icat --clear --transfer-mode=memory --stdin=no "$fullpath" 2>/dev/null`
	default:
		return `chafa --size "${FZF_PREVIEW_COLUMNS:-100}x${FZF_PREVIEW_LINES:-40}" --format symbols --symbols vhalf,wedge --colors full --dither diffusion "$fullpath" 2>/dev/null`
	}
}

// PreviewCommand builds the fzf --preview command for browsing dir. The
// generated script strips browser decorations from the selected entry,
// prints detection info by re-invoking this binary with --analyze, then
// renders the image with tool. Empty when no renderer is available.
func PreviewCommand(dir, tool string) string {
	if tool == "" {
		tool = PreviewTool()
	}
	if tool == "" {
		return ""
	}

	self, err := os.Executable()
	if err != nil {
		self = os.Args[0]
	}

	script := fmt.Sprintf(`entry="$1"
case "$entry" in
"[DONE]"*|"[CLEAR]"*|"[EDIT]"*|"---") echo "Select an image to preview"; exit 0 ;;
"[UP]"*) echo "Parent directory"; exit 0 ;;
esac
filename=$(printf '%%s' "$entry" | sed 's/^\[[A-Z]*\] //; s/^✓ //; s/ (.*$//')
fullpath=%s/"$filename"
if [ -d "$fullpath" ]; then
  echo "Directory: $filename"
  ls -lah "$fullpath" 2>/dev/null | head -20
  exit 0
fi
if [ ! -f "$fullpath" ]; then
  echo "File not found: $fullpath"
  exit 0
fi
%s --analyze "$fullpath" 2>/dev/null
echo ""
%s`, shellQuote(dir), shellQuote(self), renderCommand(tool))

	return "bash -c " + shellQuote(script) + " preview {}"
}

// shellQuote single-quotes s for safe interpolation into a shell command.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
