package main

import (
	"flag"
	"fmt"
	"log"
	"os"
)

const version = "1.0.0"

func main() {
	listOnly := flag.Bool("list", false, "List archive contents and exit")
	flag.BoolVar(listOnly, "l", false, "List archive contents and exit (shorthand)")

	quiet := flag.Bool("quiet", false, "Suppress per-file progress output")
	flag.BoolVar(quiet, "q", false, "Suppress per-file progress output (shorthand)")

	convertAudio := flag.Bool("convert-audio", false, "Run the external audio converter over extracted audio files")
	flag.BoolVar(convertAudio, "a", false, "Run the external audio converter (shorthand)")

	audioConverter := flag.String("audio-converter", "ww2ogg", "Executable used by --convert-audio")

	convertSng := flag.Bool("convert-sng", false, "Convert extracted .sng arrangements to Rocksmith-style XML")
	flag.BoolVar(convertSng, "s", false, "Convert extracted .sng arrangements to XML (shorthand)")

	exportMidi := flag.Bool("export-midi", false, "Export a scratch MIDI preview file per .sng arrangement")
	flag.BoolVar(exportMidi, "x", false, "Export a scratch MIDI preview (shorthand)")

	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.BoolVar(showVersion, "v", false, "Print version and exit (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <psarc_path> [output_dir]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		return
	}

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	psarcPath := flag.Arg(0)
	outputDir := "."
	if flag.NArg() >= 2 {
		outputDir = flag.Arg(1)
	}

	var archive Archive
	if err := archive.Open(psarcPath); err != nil {
		log.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer archive.Close()

	if *listOnly {
		for _, name := range archive.FileList() {
			fmt.Println(name)
		}
		return
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		log.Printf("Error: creating output directory: %v\n", err)
		os.Exit(1)
	}

	if err := archive.ExtractAll(outputDir); err != nil {
		log.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if !*quiet {
		for _, name := range archive.FileList() {
			fmt.Printf("extracted %s\n", name)
		}
	}

	if *convertSng {
		if err := archive.ConvertSng(outputDir); err != nil {
			log.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *exportMidi {
		if err := archive.ExportMidiPreview(outputDir); err != nil {
			log.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *convertAudio {
		if err := archive.ConvertAudio(outputDir, *audioConverter); err != nil {
			log.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
}
