package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"gopkg.in/yaml.v3"

	"github.com/vsariola/musical"
	"github.com/vsariola/musical/cmd"
	"github.com/vsariola/musical/compiler"
	"github.com/vsariola/musical/lexer"
	"github.com/vsariola/musical/listing"
	"github.com/vsariola/musical/parser"
	"github.com/vsariola/musical/version"
)

func main() {
	safe := flag.Bool("n", false, "Never overwrite files; if file already exists and would be overwritten, give an error.")
	list := flag.Bool("l", false, "Do not write files; just list files that would change instead.")
	stdout := flag.Bool("s", false, "Do not write files; write to standard output instead.")
	help := flag.Bool("h", false, "Show help.")
	outPath := flag.String("o", "", "Directory or filename where to write the output. Extension is ignored. Directory and its parents are created if needed. By default, everything is placed in the working directory.")
	wavOut := flag.Bool("w", false, "Output the rendered song as .wav file (default behaviour when no other output is defined).")
	rawOut := flag.Bool("r", false, "Output the rendered samples as headerless .raw file.")
	yamlOut := flag.Bool("y", false, "Output the parsed script and the compiled program as .script.yml and .program.yml files.")
	listOut := flag.Bool("p", false, "Output human readable listings of the script and the program as .script.txt and .program.txt files.")
	tokensOut := flag.Bool("k", false, "Output the lexical tokens as .tokens.txt file.")
	tmplDir := flag.String("t", "", "When listing, use the templates in this directory instead of the standard templates.")
	rate := flag.Int("rate", 0, "Sample rate in Hz. Defaults to the value in preferences.yml.")
	bits := flag.Int("bits", 0, "Bits per sample, 8 or 16. Defaults to the value in preferences.yml.")
	workers := flag.Int("workers", 0, "Number of goroutines used for rendering; negative uses all CPUs. Defaults to the value in preferences.yml.")
	check := flag.Bool("check", false, "Decode the rendered .wav file again and check that it is valid.")
	verbose := flag.Bool("verbose", false, "Log progress to standard error.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	if !*rawOut && !*yamlOut && !*listOut && !*tokensOut {
		*wavOut = true // if the user gives nothing to output, then the default behaviour is to render a .wav
	}
	prefs, err := cmd.UserPreferences()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read preferences: %v\n", err)
		os.Exit(1)
	}
	if *rate != 0 {
		prefs.SampleRate = *rate
	}
	if *bits != 0 {
		prefs.Bits = *bits
	}
	if *workers != 0 {
		prefs.Workers = *workers
	}
	if err := prefs.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	width, _ := prefs.SampleWidth()
	renderer := prefs.Renderer()
	var lister *listing.Lister
	if *listOut {
		if *tmplDir != "" {
			lister, err = listing.NewFromTemplates(*tmplDir)
		} else {
			lister, err = listing.New()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating lister: %v\n", err)
			os.Exit(1)
		}
	}
	w := writer{stdout: *stdout, list: *list, safe: *safe, verbose: *verbose, out: os.Stdout}
	w.setTarget(*outPath)
	process := func(filename string) error {
		inputBytes, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("could not read file %v: %v", filename, err)
		}
		src := string(inputBytes)
		if *tokensOut {
			var b strings.Builder
			for t := range lexer.Tokenize(src) {
				fmt.Fprintln(&b, t)
			}
			if err := w.write(filename, ".tokens.txt", []byte(b.String())); err != nil {
				return fmt.Errorf("error outputting tokens: %v", err)
			}
		}
		script, err := parser.Parse(src)
		if err != nil {
			return errors.New(cmd.FormatError("", src, err))
		}
		if *verbose {
			log.Printf("parsed %v statements from %v", len(script.Tokens), filename)
		}
		program, err := compiler.Compile(script)
		if err != nil {
			return errors.New(cmd.FormatError("", src, err))
		}
		if *verbose {
			log.Printf("compiled %v instructions, %.3f seconds", program.Len(), program.Length())
		}
		if *yamlOut {
			yamlScript, err := yaml.Marshal(script)
			if err != nil {
				return fmt.Errorf("could not marshal the script as yaml file: %v", err)
			}
			if err := w.write(filename, ".script.yml", yamlScript); err != nil {
				return fmt.Errorf("error outputting yaml file: %v", err)
			}
			yamlProgram, err := yaml.Marshal(program)
			if err != nil {
				return fmt.Errorf("could not marshal the program as yaml file: %v", err)
			}
			if err := w.write(filename, ".program.yml", yamlProgram); err != nil {
				return fmt.Errorf("error outputting yaml file: %v", err)
			}
		}
		if *listOut {
			scriptListing, err := lister.Script(script)
			if err != nil {
				return fmt.Errorf("listing the script failed: %v", err)
			}
			if err := w.write(filename, ".script.txt", []byte(scriptListing)); err != nil {
				return fmt.Errorf("error outputting listing: %v", err)
			}
			programListing, err := lister.Program(program)
			if err != nil {
				return fmt.Errorf("listing the program failed: %v", err)
			}
			if err := w.write(filename, ".program.txt", []byte(programListing)); err != nil {
				return fmt.Errorf("error outputting listing: %v", err)
			}
		}
		if !*wavOut && !*rawOut {
			return nil
		}
		buffer, err := renderer.Samples(program, prefs.SampleRate, width)
		if err != nil {
			return fmt.Errorf("rendering failed: %v", err)
		}
		if *verbose {
			log.Printf("rendered %v samples at %v Hz with %T", len(buffer.Data), prefs.SampleRate, renderer)
		}
		if *wavOut {
			wavBytes, err := musical.Wav(buffer)
			if err != nil {
				return fmt.Errorf("could not pack the samples into a .wav: %v", err)
			}
			if *check {
				if err := checkWav(wavBytes, buffer.Format.SampleRate, int(width)); err != nil {
					return fmt.Errorf("rendered .wav file failed the check: %v", err)
				}
			}
			if err := w.write(filename, ".wav", wavBytes); err != nil {
				return fmt.Errorf("error outputting wav file: %v", err)
			}
		}
		if *rawOut {
			rawBytes, err := musical.Raw(buffer)
			if err != nil {
				return fmt.Errorf("could not pack the samples: %v", err)
			}
			if err := w.write(filename, ".raw", rawBytes); err != nil {
				return fmt.Errorf("error outputting raw file: %v", err)
			}
		}
		return nil
	}
	retval := 0
	for _, param := range flag.Args() {
		if info, err := os.Stat(param); err == nil && info.IsDir() {
			files, err := filepath.Glob(filepath.Join(param, "*.musical"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not glob the path %v for musical files: %v\n", param, err)
				retval = 1
				continue
			}
			for _, file := range files {
				if err := process(file); err != nil {
					fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", file, err)
					retval = 1
				}
			}
		} else {
			if err := process(param); err != nil {
				fmt.Fprintf(os.Stderr, "could not process file %v: %v\n", param, err)
				retval = 1
			}
		}
	}
	os.Exit(retval)
}

func checkWav(b []byte, sampleRate, bits int) error {
	d := wav.NewDecoder(bytes.NewReader(b))
	if !d.IsValidFile() {
		return fmt.Errorf("not a valid wav file")
	}
	if int(d.SampleRate) != sampleRate || int(d.BitDepth) != bits || d.NumChans != 1 {
		return fmt.Errorf("got %v Hz, %v bits, %v channels", d.SampleRate, d.BitDepth, d.NumChans)
	}
	if _, err := d.FullPCMBuffer(); err != nil {
		return fmt.Errorf("could not decode the samples: %v", err)
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Musical compiler. Input .musical scripts, outputs rendered audio (.wav or .raw) and intermediate dumps.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
