package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/gomanip/environment"
	"github.com/samuelfneumann/gomanip/environment/envconfig"
	"github.com/samuelfneumann/gomanip/environment/manipulation/slide"
	"github.com/samuelfneumann/gomanip/simulation/planar"
	"github.com/samuelfneumann/gomanip/timestep"
	"github.com/samuelfneumann/gomanip/utils/matutils"
	"github.com/samuelfneumann/gomanip/utils/progressbar"
)

func main() {
	var configPath = flag.String("config", "", "path to a YAML environment "+
		"config; overrides the other environment flags")
	var episodes = flag.Int("episodes", 10, "number of episodes to run")
	var cutoff = flag.Int("cutoff", 50, "episode step limit")
	var seed = flag.Uint64("seed", 192382, "random seed")
	var frameDir = flag.String("frames", "", "directory to dump PNG frames "+
		"into; empty disables rendering")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Create the environment, either from a config file or directly
	var e environment.Environment
	var sim *planar.Planar
	if *configPath != "" {
		config, err := envconfig.FromFile(*configPath)
		if err != nil {
			logger.Fatal("could not load config", zap.Error(err))
		}
		e, _, err = config.Create(*seed)
		if err != nil {
			logger.Fatal("could not create environment", zap.Error(err))
		}
	} else {
		task, err := slide.NewGoal(slide.NewConfig(), *seed)
		if err != nil {
			logger.Fatal("could not create task", zap.Error(err))
		}
		sim = planar.New()
		e, _, err = slide.New(task, sim, 0.95, *cutoff)
		if err != nil {
			logger.Fatal("could not create environment", zap.Error(err))
		}
	}

	// Random push forces
	src := rand.NewSource(*seed)
	rng := distuv.Uniform{Min: slide.MinForce, Max: slide.MaxForce, Src: src}

	bar := progressbar.New(50, *episodes)
	bar.Display()

	frame := 0
	for episode := 0; episode < *episodes; episode++ {
		episodeReturn := 0.0
		steps := 0

		for {
			action := mat.NewVecDense(slide.ActionDims,
				[]float64{rng.Rand(), rng.Rand()})

			var step timestep.TimeStep
			var done bool
			step, done, err = e.Step(action)
			if err != nil {
				logger.Fatal("could not step environment", zap.Error(err))
			}
			episodeReturn += step.Reward
			steps++

			if *frameDir != "" && sim != nil {
				path := filepath.Join(*frameDir,
					fmt.Sprintf("slide-%05d.png", frame))
				if err := sim.Render(path); err != nil {
					logger.Fatal("could not render frame", zap.Error(err))
				}
				frame++
			}

			if done {
				break
			}
		}

		achieved, err := e.GetAchievedGoal()
		if err != nil {
			logger.Fatal("could not get achieved goal", zap.Error(err))
		}
		success := e.IsSuccess(achieved, e.GetDesiredGoal())

		logger.Info("episode finished",
			zap.Int("episode", episode),
			zap.Int("steps", steps),
			zap.Float64("return", episodeReturn),
			zap.Bool("success", success),
			zap.String("goal", matutils.Format(e.GetDesiredGoal().T())),
		)

		if _, err := e.Reset(); err != nil {
			logger.Fatal("could not reset environment", zap.Error(err))
		}

		bar.Increment()
		bar.Display()
	}
}
