// pakview is a CLI utility for browsing packed game data: it mounts data
// roots, lists and extracts files, prints localization text, and decodes
// geometry and texture payloads.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Faultbox/pakview/internal/assets"
	"github.com/Faultbox/pakview/internal/config"
	"github.com/Faultbox/pakview/internal/logger"
	"github.com/Faultbox/pakview/internal/viewer"
	"github.com/Faultbox/pakview/pkg/formats"
	"github.com/Faultbox/pakview/pkg/mesh"
	"github.com/Faultbox/pakview/pkg/vfs"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]
	if command == "help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	switch command {
	case "info":
		cmdInfo(cfg, args)
	case "list", "ls":
		cmdList(cfg, args)
	case "search", "find":
		cmdSearch(cfg, args)
	case "extract", "x":
		cmdExtract(cfg, args)
	case "loc":
		cmdLoc(cfg, args)
	case "mesh":
		cmdMesh(cfg, args)
	case "dds":
		cmdDDS(cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `pakview - packed game data browser

Usage:
  pakview [global options] <command> [options]

Commands:
  info                              Show mounted roots and file counts
  list [dir]                        List a directory (-R for the whole subtree)
  search <mask>                     Find files whose name contains mask
  extract <path> [output]           Extract a file (glob on the name for many)
  loc [filter]                      Print localization strings
  mesh <vertices> <faces>           Decode geometry and print mesh stats
  dds <pixels>                      Wrap raw pixels in a DDS container

Global options:`)
	config.PrintDefaults()
	fmt.Fprintln(os.Stderr, `
Examples:
  pakview -r /games/base -r /games/patch info
  pakview -r /games/base list models/props
  pakview -r /games/base mesh models/box.vtx models/box.idx --obj box.obj
  pakview -r /games/base dds textures/ui.tex -w 256 -H 256 -v 5`)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// mount opens every configured root and wraps them in an asset manager.
func mount(cfg *config.Config) *assets.Manager {
	if len(cfg.Data.Roots) == 0 {
		fatalf("no data roots configured (use --root or data.roots)")
	}

	fsys, err := vfs.Mount(cfg.Data.Roots, cfg.MountOptions())
	if err != nil {
		fatalf("%v", err)
	}
	for _, s := range fsys.Stats {
		logger.For("mount", zap.String("root", s.Root)).Info("mounted root",
			zap.Int("entries", s.Entries),
			zap.Int("localized", s.Localized))
	}
	return assets.NewManager(fsys)
}

func cmdInfo(cfg *config.Config, args []string) {
	fs := pflag.NewFlagSet("info", pflag.ExitOnError)
	fs.Parse(args)

	m := mount(cfg)
	defer m.Close()
	fsys := m.FileSystem()

	fmt.Println("Roots:")
	for i, s := range fsys.Stats {
		role := "overlay"
		if i == 0 {
			role = "primary"
		}
		fmt.Printf("  %-8s %s (%d entries, %d localized)\n", role, s.Root, s.Entries, s.Localized)
	}

	// Count by extension
	extCount := make(map[string]int)
	var totalSize uint64
	for f := range fsys.Root.All() {
		ext := strings.ToLower(filepath.Ext(f.Name))
		if f.IsMemory() {
			ext = "(localized)"
		} else if ext == "" {
			ext = "(no ext)"
		}
		extCount[ext]++
		totalSize += f.Size
	}

	fmt.Println()
	fmt.Printf("Files:   %d\n", fsys.Root.FileCount())
	fmt.Printf("Unique:  %d\n", vfs.MergeByPath(fsys.Root.All()).Len())
	fmt.Printf("Size:    %.2f MB\n", float64(totalSize)/(1024*1024))
	fmt.Println()
	fmt.Println("Files by type:")

	// Sort by count
	type extStat struct {
		ext   string
		count int
	}
	var stats []extStat
	for ext, count := range extCount {
		stats = append(stats, extStat{ext, count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].ext < stats[j].ext
	})

	for _, s := range stats {
		fmt.Printf("  %-12s %d\n", s.ext, s.count)
	}
}

func cmdList(cfg *config.Config, args []string) {
	fs := pflag.NewFlagSet("list", pflag.ExitOnError)
	recursive := fs.BoolP("recursive", "R", false, "List the whole subtree")
	limit := fs.IntP("limit", "n", 0, "Limit output to N files (0 = all)")
	fs.Parse(args)

	m := mount(cfg)
	defer m.Close()

	path := fs.Arg(0)
	dir := m.FileSystem().Root.GetDirectory(path)
	if dir == nil {
		fatalf("directory not found: %s", path)
	}

	if !*recursive {
		for _, sub := range dir.Subdirectories() {
			fmt.Printf("%s/\n", sub.Name)
		}
	}

	files := dir.Files
	if *recursive {
		files = nil
		for f := range dir.All() {
			files = append(files, f)
		}
	}

	count := 0
	for _, f := range files {
		fmt.Printf("%-60s %10d  %s\n", f.Path, f.Size, filepath.Base(f.Archive))
		count++
		if *limit > 0 && count >= *limit {
			break
		}
	}
}

func cmdSearch(cfg *config.Config, args []string) {
	fs := pflag.NewFlagSet("search", pflag.ExitOnError)
	limit := fs.IntP("limit", "n", 50, "Limit results (0 = all)")
	merged := fs.Bool("merged", false, "Show one sorted result per path, last root wins")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pakview search <mask>")
		os.Exit(1)
	}

	m := mount(cfg)
	defer m.Close()

	matches := m.FileSystem().Root.Find(fs.Arg(0))
	var results []*vfs.File
	if *merged {
		results = vfs.MergeByPath(matches).Files()
	} else {
		for f := range matches {
			results = append(results, f)
		}
	}

	count := 0
	for _, f := range results {
		fmt.Printf("%s\t%s\n", f.Path, filepath.Base(f.Archive))
		count++
		if *limit > 0 && count >= *limit {
			fmt.Fprintf(os.Stderr, "\n(showing first %d matches, use -n 0 for all)\n", *limit)
			break
		}
	}

	if count == 0 {
		fmt.Fprintln(os.Stderr, "No files found")
	} else if *limit == 0 || count < *limit {
		fmt.Fprintf(os.Stderr, "\n(%d files found)\n", count)
	}
}

func cmdExtract(cfg *config.Config, args []string) {
	fs := pflag.NewFlagSet("extract", pflag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pakview extract <path> [output_dir]")
		os.Exit(1)
	}

	filePath := fs.Arg(0)
	outputDir := "."
	if fs.NArg() > 1 {
		outputDir = fs.Arg(1)
	}

	m := mount(cfg)
	defer m.Close()

	// Check if it's a pattern
	if strings.Contains(filePath, "*") {
		extractPattern(m, filePath, outputDir)
		return
	}

	data, err := m.Load(filePath)
	if err != nil {
		fatalf("%v", err)
	}

	outputPath := filepath.Join(outputDir, filepath.Base(filePath))
	if err := writeOutput(outputPath, data); err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Extracted: %s (%d bytes)\n", outputPath, len(data))
}

func extractPattern(m *assets.Manager, pattern, outputDir string) {
	pattern = strings.ToLower(pattern)

	extracted := 0
	for _, f := range vfs.MergeByPath(m.FileSystem().Root.All()).Files() {
		matched, _ := filepath.Match(pattern, strings.ToLower(f.Name))
		if !matched {
			continue
		}

		data, err := m.Load(f.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", f.Path, err)
			continue
		}

		// Preserve directory structure
		outputPath := filepath.Join(outputDir, filepath.FromSlash(f.Path))
		if err := writeOutput(outputPath, data); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}

		fmt.Printf("Extracted: %s\n", outputPath)
		extracted++

		// Large extractions would otherwise hold every file's bytes.
		m.ClearCache()
	}

	fmt.Fprintf(os.Stderr, "\nExtracted %d files\n", extracted)
}

func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func cmdLoc(cfg *config.Config, args []string) {
	fs := pflag.NewFlagSet("loc", pflag.ExitOnError)
	limit := fs.IntP("limit", "n", 0, "Limit output to N strings (0 = all)")
	fs.Parse(args)

	m := mount(cfg)
	defer m.Close()

	filter := strings.ToLower(fs.Arg(0))
	log := logger.For("loc")
	count := 0
	for _, f := range m.FileSystem().Root.Files {
		if !f.IsMemory() || !strings.Contains(strings.ToLower(f.Name), filter) {
			continue
		}
		data, err := f.Data()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", f.Name, err)
			continue
		}
		text, err := formats.DecodeLocText(data)
		if err != nil {
			log.Warn("undecodable localization text", zap.String("name", f.Name), zap.Error(err))
			continue
		}
		fmt.Printf("%s\t%s\n", f.Name, text)
		count++
		if *limit > 0 && count >= *limit {
			break
		}
	}

	if count == 0 {
		fmt.Fprintln(os.Stderr, "No strings found")
	}
}

func cmdMesh(cfg *config.Config, args []string) {
	fs := pflag.NewFlagSet("mesh", pflag.ExitOnError)
	lod := fs.Float32("lod", float32(cfg.Viewer.LODPercent), "Fraction of faces to draw, 0..1")
	stride := fs.Uint32("stride", 0, "Override the detected vertex stride")
	posOff := fs.Int("pos", -1, "Override the position offset (255 = absent)")
	uvOff := fs.Int("uv", -1, "Override the texcoord offset (255 = absent)")
	objPath := fs.String("obj", "", "Export the mesh as Wavefront OBJ")
	buckets := fs.Int("preview", 0, "Print an LOD preview histogram with N buckets")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: pakview mesh <vertices> <faces> [--lod f] [--stride n] [--obj out.obj]")
		os.Exit(1)
	}

	m := mount(cfg)
	defer m.Close()

	vtx, err := m.Resolve(fs.Arg(0))
	if err != nil {
		fatalf("%v", err)
	}
	idx, err := m.Resolve(fs.Arg(1))
	if err != nil {
		fatalf("%v", err)
	}

	s, err := viewer.NewModelSession(vtx, idx, *lod)
	if err != nil {
		fatalf("%v", err)
	}
	defer s.Close()

	if *stride > 0 {
		if err := s.SetStride(*stride); err != nil {
			fatalf("%v", err)
		}
	}
	if *posOff >= 0 {
		if err := s.SetPositionOffset(uint32(*posOff)); err != nil {
			fatalf("%v", err)
		}
	}
	if *uvOff >= 0 {
		if err := s.SetTexCoordOffset(uint32(*uvOff)); err != nil {
			fatalf("%v", err)
		}
	}

	mm := s.Mesh()
	detected := s.DetectedLayout().String()
	if s.Fallback() {
		detected += " (fallback)"
	}
	fmt.Printf("Vertices:  %s (%d bytes)\n", vtx.Path, vtx.Size)
	fmt.Printf("Faces:     %s (%d bytes)\n", idx.Path, idx.Size)
	fmt.Printf("Detected:  %s\n", detected)
	fmt.Printf("Layout:    %s\n", s.Layout())
	fmt.Printf("LOD:       %.2f\n", s.LOD())
	fmt.Printf("Mesh:      %d vertices, %d/%d triangles", mm.VertexCount(), mm.TriangleCount(), mm.FaceCount)
	if mm.SkippedFaces > 0 {
		fmt.Printf(" (%d skipped)", mm.SkippedFaces)
	}
	fmt.Println()
	if !mm.Bounds.Empty() {
		size := mm.Bounds.Size()
		fmt.Printf("Bounds:    %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	}

	if *buckets > 0 {
		fmt.Println()
		fmt.Println("LOD preview:")
		for i, n := range viewer.LODPreview(s.Digest(), *buckets) {
			fmt.Printf("  %3d %6d %s\n", i, n, strings.Repeat("#", min(n, 60)))
		}
	}

	if *objPath != "" {
		if err := writeOBJ(*objPath, mm, strings.TrimSuffix(vtx.Name, filepath.Ext(vtx.Name))); err != nil {
			fatalf("%v", err)
		}
		fmt.Printf("Exported:  %s\n", *objPath)
	}
}

func writeOBJ(path string, m *mesh.Mesh, name string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := mesh.WriteOBJ(f, m, name); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func cmdDDS(cfg *config.Config, args []string) {
	fs := pflag.NewFlagSet("dds", pflag.ExitOnError)
	width := fs.Uint32P("width", "w", uint32(cfg.Viewer.TextureWidth), "Texture width")
	height := fs.Uint32P("height", "H", uint32(cfg.Viewer.TextureHeight), "Texture height")
	variant := fs.IntP("variant", "v", cfg.Viewer.TextureVariant, "Compression variant 1..5 (DXT1..DXT5)")
	output := fs.StringP("output", "o", "", "Output path (default <name>.dds)")
	remember := fs.Bool("remember", false, "Save these settings as the new defaults")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: pakview dds <pixels> [-w width] [-H height] [-v variant] [-o out.dds]")
		os.Exit(1)
	}

	m := mount(cfg)
	defer m.Close()

	f, err := m.Resolve(fs.Arg(0))
	if err != nil {
		fatalf("%v", err)
	}

	s, err := viewer.NewTextureSession(f, *width, *height, formats.TextureVariant(*variant))
	if err != nil {
		fatalf("%v", err)
	}
	defer s.Close()

	data, err := s.Synthesize()
	if err != nil {
		fatalf("%v", err)
	}
	info, err := formats.ParseDDSHeader(data)
	if err != nil {
		fatalf("%v", err)
	}

	outputPath := *output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(f.Name, filepath.Ext(f.Name)) + ".dds"
	}
	if err := writeOutput(outputPath, data); err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("Wrote: %s (%dx%d %s, %d payload bytes)\n",
		outputPath, info.Width, info.Height, info.FourCC, info.LinearSize)

	if *remember {
		cfg.Remember(filepath.Dir(f.Path), int(*width), int(*height), *variant)
		if err := cfg.Save(); err != nil {
			fatalf("saving config: %v", err)
		}
	}
}
