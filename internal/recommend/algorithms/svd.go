// Filmwise - Hybrid Movie Recommendation Demo
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmwise

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/tomtom215/filmwise/internal/dataset"
	"github.com/tomtom215/filmwise/internal/logging"
)

// ErrEmptyTestset is returned by RMSE when there is nothing to evaluate.
var ErrEmptyTestset = errors.New("empty testset")

// SVD implements biased matrix factorization trained with stochastic
// gradient descent.
//
// The predicted rating for user u and movie i is:
//
//	r̂(u,i) = μ + b_u + b_i + q_i · p_u
//
// where μ is the global mean, b_u and b_i are the user and movie biases and
// p_u, q_i are the latent factor vectors. Terms involving an unknown user
// or movie are dropped, so a cold pair falls back to the baseline estimate.
// Predictions are clipped to the rating scale.
//
// Each epoch visits the training ratings in input order and applies, for
// every rating with residual e:
//
//	b_u ← b_u + γ(e − λ·b_u)
//	b_i ← b_i + γ(e − λ·b_i)
//	p_u ← p_u + γ(e·q_i − λ·p_u)
//	q_i ← q_i + γ(e·p_u − λ·q_i)
//
// Factors start from N(0, InitStd²) drawn from a generator seeded with
// Seed, so two models trained on the same ratings are identical.
type SVD struct {
	BaseAlgorithm

	cfg SVDConfig

	globalMean  float64
	userIndex   map[string]int
	itemIndex   map[string]int
	users       []string
	items       []string
	userBias    []float64
	itemBias    []float64
	userFactors [][]float64
	itemFactors [][]float64
}

// SVDConfig contains configuration for the SVD model.
type SVDConfig struct {
	// Factors is the number of latent factors.
	Factors int

	// Epochs is the number of passes over the training ratings.
	Epochs int

	// LearningRate is the SGD step size (γ).
	LearningRate float64

	// Regularization is the L2 penalty (λ) applied to biases and factors.
	Regularization float64

	// InitStd is the standard deviation of the initial factor values.
	InitStd float64

	// Seed drives factor initialization.
	Seed int64

	// MinRating and MaxRating bound predictions.
	MinRating float64
	MaxRating float64
}

// DefaultSVDConfig returns the default SVD configuration.
func DefaultSVDConfig() SVDConfig {
	return SVDConfig{
		Factors:        100,
		Epochs:         20,
		LearningRate:   0.005,
		Regularization: 0.02,
		InitStd:        0.1,
		Seed:           42,
		MinRating:      dataset.MinRating,
		MaxRating:      dataset.MaxRating,
	}
}

// NewSVD creates a new, untrained SVD model.
func NewSVD(cfg SVDConfig) *SVD {
	defaults := DefaultSVDConfig()
	if cfg.Factors <= 0 {
		cfg.Factors = defaults.Factors
	}
	if cfg.Epochs < 0 {
		cfg.Epochs = 0
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = defaults.LearningRate
	}
	if cfg.Regularization < 0 {
		cfg.Regularization = defaults.Regularization
	}
	if cfg.InitStd < 0 {
		cfg.InitStd = defaults.InitStd
	}
	if cfg.MinRating >= cfg.MaxRating {
		cfg.MinRating, cfg.MaxRating = defaults.MinRating, defaults.MaxRating
	}

	return &SVD{
		BaseAlgorithm: NewBaseAlgorithm("svd"),
		cfg:           cfg,
	}
}

// Config returns the model configuration.
func (s *SVD) Config() SVDConfig {
	return s.cfg
}

// Train fits the model to ratings, replacing any previous state.
func (s *SVD) Train(ctx context.Context, ratings []dataset.Rating) error {
	s.acquireTrainLock()
	defer s.releaseTrainLock()

	logger := logging.Ctx(ctx).With().Str("component", "svd").Logger()

	s.userIndex = make(map[string]int)
	s.itemIndex = make(map[string]int)
	s.users = nil
	s.items = nil

	// Index users and movies in first-appearance order
	userOf := make([]int, len(ratings))
	itemOf := make([]int, len(ratings))
	var sum float64
	for n, r := range ratings {
		u, ok := s.userIndex[r.User]
		if !ok {
			u = len(s.users)
			s.userIndex[r.User] = u
			s.users = append(s.users, r.User)
		}
		i, ok := s.itemIndex[r.Movie]
		if !ok {
			i = len(s.items)
			s.itemIndex[r.Movie] = i
			s.items = append(s.items, r.Movie)
		}
		userOf[n], itemOf[n] = u, i
		sum += r.Value
	}

	s.globalMean = 0
	if len(ratings) > 0 {
		s.globalMean = sum / float64(len(ratings))
	}

	k := s.cfg.Factors
	rng := rand.New(rand.NewSource(s.cfg.Seed)) //nolint:gosec // deterministic model initialization
	s.userBias = make([]float64, len(s.users))
	s.itemBias = make([]float64, len(s.items))
	s.userFactors = randomMatrix(rng, len(s.users), k, s.cfg.InitStd)
	s.itemFactors = randomMatrix(rng, len(s.items), k, s.cfg.InitStd)

	lr := s.cfg.LearningRate
	reg := s.cfg.Regularization

	for epoch := 0; epoch < s.cfg.Epochs; epoch++ {
		if ContextCancelled(ctx) {
			return ctx.Err()
		}

		var sqErr float64
		for n, r := range ratings {
			u, i := userOf[n], itemOf[n]
			pu, qi := s.userFactors[u], s.itemFactors[i]

			dot := 0.0
			for f := 0; f < k; f++ {
				dot += qi[f] * pu[f]
			}
			e := r.Value - (s.globalMean + s.userBias[u] + s.itemBias[i] + dot)
			sqErr += e * e

			s.userBias[u] += lr * (e - reg*s.userBias[u])
			s.itemBias[i] += lr * (e - reg*s.itemBias[i])

			for f := 0; f < k; f++ {
				puf, qif := pu[f], qi[f]
				pu[f] += lr * (e*qif - reg*puf)
				qi[f] += lr * (e*puf - reg*qif)
			}
		}

		if len(ratings) > 0 {
			logger.Debug().
				Int("epoch", epoch+1).
				Float64("train_rmse", math.Sqrt(sqErr/float64(len(ratings)))).
				Msg("SVD epoch complete")
		}
	}

	s.markTrained()
	return nil
}

// Predict estimates the rating user would give movie.
func (s *SVD) Predict(user, movie string) float64 {
	s.acquirePredictLock()
	defer s.releasePredictLock()

	return s.predict(user, movie)
}

func (s *SVD) predict(user, movie string) float64 {
	est := s.globalMean

	u, userKnown := s.userIndex[user]
	i, itemKnown := s.itemIndex[movie]

	if userKnown {
		est += s.userBias[u]
	}
	if itemKnown {
		est += s.itemBias[i]
	}
	if userKnown && itemKnown {
		pu, qi := s.userFactors[u], s.itemFactors[i]
		for f := range pu {
			est += qi[f] * pu[f]
		}
	}

	return clamp(est, s.cfg.MinRating, s.cfg.MaxRating)
}

// KnowsUser reports whether user appeared in the training ratings.
func (s *SVD) KnowsUser(user string) bool {
	s.acquirePredictLock()
	defer s.releasePredictLock()

	_, ok := s.userIndex[user]
	return ok
}

// RMSE returns the root mean squared error of the model's predictions over
// testset.
func (s *SVD) RMSE(ctx context.Context, testset []dataset.Rating) (float64, error) {
	if len(testset) == 0 {
		return 0, ErrEmptyTestset
	}

	s.acquirePredictLock()
	defer s.releasePredictLock()

	if !s.trained {
		return 0, fmt.Errorf("svd model is not trained")
	}

	var sum float64
	for n, r := range testset {
		if n%1024 == 0 && ContextCancelled(ctx) {
			return 0, ctx.Err()
		}
		d := r.Value - s.predict(r.User, r.Movie)
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(testset))), nil
}

// SVDState is the serializable state of a trained SVD model.
type SVDState struct {
	Config      SVDConfig
	GlobalMean  float64
	Users       []string
	Items       []string
	UserBias    []float64
	ItemBias    []float64
	UserFactors [][]float64
	ItemFactors [][]float64
}

// State returns a copy of the trained model state.
func (s *SVD) State() SVDState {
	s.acquirePredictLock()
	defer s.releasePredictLock()

	return SVDState{
		Config:      s.cfg,
		GlobalMean:  s.globalMean,
		Users:       append([]string(nil), s.users...),
		Items:       append([]string(nil), s.items...),
		UserBias:    append([]float64(nil), s.userBias...),
		ItemBias:    append([]float64(nil), s.itemBias...),
		UserFactors: copyMatrix(s.userFactors),
		ItemFactors: copyMatrix(s.itemFactors),
	}
}

// NewSVDFromState restores a trained model from state.
func NewSVDFromState(state SVDState) (*SVD, error) {
	if len(state.UserBias) != len(state.Users) || len(state.UserFactors) != len(state.Users) {
		return nil, fmt.Errorf("svd state: %d users but %d biases and %d factor rows",
			len(state.Users), len(state.UserBias), len(state.UserFactors))
	}
	if len(state.ItemBias) != len(state.Items) || len(state.ItemFactors) != len(state.Items) {
		return nil, fmt.Errorf("svd state: %d items but %d biases and %d factor rows",
			len(state.Items), len(state.ItemBias), len(state.ItemFactors))
	}
	for _, rows := range [][][]float64{state.UserFactors, state.ItemFactors} {
		for _, row := range rows {
			if len(row) != state.Config.Factors {
				return nil, fmt.Errorf("svd state: factor row has %d values, want %d", len(row), state.Config.Factors)
			}
		}
	}

	s := NewSVD(state.Config)
	s.globalMean = state.GlobalMean
	s.users = append([]string(nil), state.Users...)
	s.items = append([]string(nil), state.Items...)
	s.userBias = append([]float64(nil), state.UserBias...)
	s.itemBias = append([]float64(nil), state.ItemBias...)
	s.userFactors = copyMatrix(state.UserFactors)
	s.itemFactors = copyMatrix(state.ItemFactors)

	s.userIndex = make(map[string]int, len(s.users))
	for i, u := range s.users {
		s.userIndex[u] = i
	}
	s.itemIndex = make(map[string]int, len(s.items))
	for i, m := range s.items {
		s.itemIndex[m] = i
	}

	s.acquireTrainLock()
	s.markTrained()
	s.releaseTrainLock()
	return s, nil
}

// SplitTrainTest shuffles ratings with a generator seeded by seed and holds
// out ceil(testRatio*n) of them as the testset. The training set is never
// left empty while there are ratings to train on. The input is not modified.
func SplitTrainTest(ratings []dataset.Rating, testRatio float64, seed int64) (train, test []dataset.Rating) {
	n := len(ratings)
	if n == 0 {
		return nil, nil
	}

	shuffled := make([]dataset.Rating, n)
	copy(shuffled, ratings)
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible split
	rng.Shuffle(n, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	nTest := 0
	if testRatio > 0 {
		nTest = int(math.Ceil(testRatio * float64(n)))
	}
	if nTest >= n {
		nTest = n - 1
	}

	return shuffled[nTest:], shuffled[:nTest]
}

func randomMatrix(rng *rand.Rand, rows, cols int, std float64) [][]float64 {
	m := make([][]float64, rows)
	for r := range m {
		m[r] = make([]float64, cols)
		for c := range m[r] {
			m[r][c] = rng.NormFloat64() * std
		}
	}
	return m
}

func copyMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
