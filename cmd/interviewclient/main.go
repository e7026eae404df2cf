package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"ai-interview-service/internal/apiclient"
	"ai-interview-service/internal/interview"
	"ai-interview-service/internal/models"
	"ai-interview-service/internal/realtime"
	"ai-interview-service/internal/realtime/livekit"
	"ai-interview-service/internal/realtime/mock"
	"ai-interview-service/internal/scoring"
)

const barWidth = 40

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "Interview service base URL")
	topic := flag.String("topic", "", "Prompt topic to interview for (default: first in catalogue)")
	useMock := flag.Bool("mock", false, "Replay a scripted session instead of joining a real room")
	mockInterval := flag.Duration("mock-interval", 300*time.Millisecond, "Delay between scripted segments")
	listOnly := flag.Bool("list", false, "List available prompts and exit")
	timeout := flag.Duration("timeout", 30*time.Minute, "Overall interview timeout")
	flag.Parse()

	client := apiclient.New(*serverURL)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	prompts, err := client.Prompts(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch prompt catalogue: %v", err)
	}
	if len(prompts) == 0 {
		log.Fatal("Prompt catalogue is empty")
	}

	if *listOnly {
		for _, p := range prompts {
			fmt.Printf("%-30s hard skills: %s\n", p.Topic, strings.Join(p.HardSkills, ", "))
		}
		return
	}

	prompt := prompts[0]
	if *topic != "" {
		found := false
		for _, p := range prompts {
			if strings.EqualFold(p.Topic, *topic) {
				prompt = p
				found = true
				break
			}
		}
		if !found {
			log.Fatalf("No prompt with topic %q, run with -list to see the catalogue", *topic)
		}
	}

	var dial realtime.DialFunc
	if *useMock {
		dial = mock.Dial(mock.WithInterval(*mockInterval))
	} else {
		dial = livekit.Dial()
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	controller := interview.NewController(client, client, dial, logger)

	log.Printf("Starting interview: topic=%q hardSkills=%v", prompt.Topic, prompt.HardSkills)
	if err := controller.Start(ctx, prompt); err != nil {
		log.Fatalf("Failed to start interview: %v", err)
	}

	// Ctrl-C ends the session gracefully; the evaluation still runs.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Println("Ending interview session")
		if err := controller.Stop(); err != nil {
			log.Printf("Stop failed: %v", err)
		}
	}()

	if err := controller.Wait(ctx); err != nil {
		log.Fatalf("Interview did not finish: %v", err)
	}

	printTranscript(controller.Transcript())

	result := controller.Result()
	if result == nil {
		log.Println("No evaluation available for this session")
		return
	}
	printReport(prompt, *result)
}

func printTranscript(segments []models.TranscriptSegment) {
	if len(segments) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Transcript")
	fmt.Println(strings.Repeat("-", 60))
	for _, seg := range segments {
		label := "Interviewer"
		if seg.Role == models.RoleUser {
			label = "Candidate"
		}
		fmt.Printf("%-12s %s\n", label+":", seg.Text)
	}
}

// printReport renders the summary and one bar per skill, soft skills first.
func printReport(prompt models.Prompt, result models.ScoreResult) {
	fmt.Println()
	fmt.Println("Evaluation")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println(result.Summary)
	fmt.Println()

	soft := make(map[string]bool, len(scoring.SoftSkills))
	for _, s := range scoring.SoftSkills {
		soft[s] = true
	}

	var softNames, hardNames []string
	for name := range result.Scores {
		if soft[name] {
			softNames = append(softNames, name)
		} else {
			hardNames = append(hardNames, name)
		}
	}
	sort.Strings(softNames)
	sort.Strings(hardNames)

	if len(softNames) > 0 {
		fmt.Println("Soft skills")
		for _, name := range softNames {
			printBar(name, result.Scores[name])
		}
	}
	if len(hardNames) > 0 {
		fmt.Println()
		fmt.Printf("Hard skills (%s)\n", prompt.Topic)
		for _, name := range hardNames {
			printBar(name, result.Scores[name])
		}
	}
}

func printBar(name string, score float64) {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	filled := int(score / 100 * barWidth)
	bar := strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled)
	fmt.Printf("  %-18s [%s] %5.1f\n", name, bar, score)
}
