package ui

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	mover "omarchy-mover"
)

// jpegQuality is used when rewriting rotated JPEGs.
const jpegQuality = 92

// Viewer shows an image in the terminal and offers rotate and rename
// actions before the file is processed.
type Viewer struct {
	tool string
}

func NewViewer() *Viewer {
	return &Viewer{tool: PreviewTool()}
}

// View displays path and loops over viewer actions until the user is done.
// It returns the final path, which differs from the input after a rename.
func (v *Viewer) View(path string) (string, error) {
	current := path
	for {
		v.show(current)
		v.printInfo(current)

		action, err := SelectOne([]string{
			"Rotate right",
			"Rotate left",
			"Rename",
			"Done",
		}, filepath.Base(current)+" > ")
		if err != nil {
			return current, err
		}

		switch action {
		case "Rotate right":
			if err := rotateImage(current, true); err != nil {
				fmt.Printf("Error rotating: %v\n", err)
			}
		case "Rotate left":
			if err := rotateImage(current, false); err != nil {
				fmt.Printf("Error rotating: %v\n", err)
			}
		case "Rename":
			newPath, err := renameImage(current)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
			} else if newPath != "" {
				current = newPath
			}
		default:
			return current, nil
		}
	}
}

// show renders the image with the detected terminal tool; a missing tool
// just skips the picture.
func (v *Viewer) show(path string) {
	if v.tool == "" {
		return
	}
	fmt.Print("\033[2J\033[H") // clear screen

	var cmd *exec.Cmd
	switch v.tool {
	case "viu":
		cmd = exec.Command("viu", "-t", path)
	case "kitty":
		cmd = exec.Command("kitty", "+kitten", "icat",
			"--clear", "--transfer-mode=memory", "--stdin=no", path)
	default:
		cmd = exec.Command("chafa",
			"--format", "symbols", "--symbols", "vhalf,wedge",
			"--colors", "full", "--dither", "diffusion", path)
	}
	cmd.Stdout = os.Stdout
	_ = cmd.Run()
}

func (v *Viewer) printInfo(path string) {
	line := "File: " + filepath.Base(path)
	if info, err := mover.ReadImageInfo(path); err == nil {
		line += fmt.Sprintf(" | %dx%d | %s | %s",
			info.Width, info.Height, strings.ToUpper(info.Format), mover.FormatSize(info.Size))
		if !info.Captured.IsZero() {
			line += " | " + info.Captured.Format("2006-01-02")
		}
	}
	fmt.Println("\n" + line)
}

// rotateImage rewrites the file turned a quarter turn. Only JPEG and PNG are
// rewritten; other formats are left alone rather than silently re-encoded.
func rotateImage(path string, clockwise bool) error {
	img, err := mover.LoadImage(path)
	if err != nil {
		return err
	}
	rotated := rotate90(img, clockwise)

	ext := strings.ToLower(filepath.Ext(path))
	tmp, err := os.CreateTemp(filepath.Dir(path), ".rotate*"+ext)
	if err != nil {
		return err
	}

	switch ext {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(tmp, rotated, &jpeg.Options{Quality: jpegQuality})
	case ".png":
		err = png.Encode(tmp, rotated)
	default:
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("rotation not supported for %s files", ext)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// rotate90 returns img turned a quarter turn in either direction.
func rotate90(img image.Image, clockwise bool) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if clockwise {
				dst.Set(b.Max.Y-1-y, x-b.Min.X, img.At(x, y))
			} else {
				dst.Set(y-b.Min.Y, b.Max.X-1-x, img.At(x, y))
			}
		}
	}
	return dst
}

// renameImage prompts for a new name on stdin, keeping the extension.
// Returns the new path, or empty when the user cancels.
func renameImage(path string) (string, error) {
	fmt.Printf("Current: %s\nNew name (empty to cancel): ", filepath.Base(path))

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(line)
	if name == "" || name == filepath.Base(path) {
		fmt.Println("Rename cancelled")
		return "", nil
	}

	ext := filepath.Ext(path)
	if !strings.HasSuffix(strings.ToLower(name), strings.ToLower(ext)) {
		name += ext
	}
	newPath := filepath.Join(filepath.Dir(path), name)
	if _, err := os.Stat(newPath); err == nil {
		return "", fmt.Errorf("file already exists: %s", name)
	}
	if err := os.Rename(path, newPath); err != nil {
		return "", err
	}
	fmt.Println("Renamed to: " + name)
	return newPath, nil
}
