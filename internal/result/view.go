package result

import (
	"fmt"

	"github.com/SversusN/reviewcheck/internal/internalerrors"
)

// State состояние отображения результата.
// Исходное состояние это сама страница до первого кадра, своего кадра у него нет
type State string

const (
	StateAnalyzing State = "analyzing"
	StateRevealed  State = "revealed"
	StateError     State = "error"
)

const (
	PredictionFake      = "❌ FAKE"
	PredictionReal      = "✅ REAL"
	PredictionAnalyzing = "Analyzing..."
	AccuracyCalculating = "Calculating..."
	AccuracyNA          = "N/A"
)

// Band цветовая полоса заполнения
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

var backgrounds = map[Band]string{
	BandHigh:   "linear-gradient(90deg, #4CAF50, #45a049)",
	BandMedium: "linear-gradient(90deg, #2196F3, #1976D2)",
	BandLow:    "linear-gradient(90deg, #FFC107, #FFA000)",
}

// BandFor >90 high, >75 medium, иначе low
func BandFor(value float64) Band {
	switch {
	case value > 90:
		return BandHigh
	case value > 75:
		return BandMedium
	default:
		return BandLow
	}
}

// Background CSS фон полосы
func (b Band) Background() string {
	return backgrounds[b]
}

// View то, что видит пользователь на странице результата
type View struct {
	State      State   `json:"state"`
	Prediction string  `json:"prediction"`
	Fake       bool    `json:"fake"`
	Accuracy   string  `json:"accuracy"`
	Fill       float64 `json:"fill"`
	Band       Band    `json:"band,omitempty"`
	Background string  `json:"background,omitempty"`
}

// Display получатель кадров отображения
type Display interface {
	Render(v View) error
}

// DisplayFunc адаптер функции к Display
type DisplayFunc func(v View) error

func (f DisplayFunc) Render(v View) error {
	return f(v)
}

// ErrorView состояние ошибки, анимации нет
func ErrorView(err error) View {
	return View{
		State:      StateError,
		Prediction: "❌ " + internalerrors.UserMessage(err),
		Accuracy:   AccuracyNA,
		Fill:       0,
	}
}

// AnalyzingView промежуточное состояние
func AnalyzingView() View {
	return View{
		State:      StateAnalyzing,
		Prediction: PredictionAnalyzing,
		Accuracy:   AccuracyCalculating,
	}
}

func prediction(fake bool) string {
	if fake {
		return PredictionFake
	}
	return PredictionReal
}

// revealedView вердикт показан, точность ещё не начала расти
func revealedView(fake bool) View {
	return View{
		State:      StateRevealed,
		Prediction: prediction(fake),
		Fake:       fake,
		Accuracy:   AccuracyCalculating,
	}
}

// FrameView кадр анимации с отображаемым значением value
func FrameView(fake bool, value float64) View {
	band := BandFor(value)
	return View{
		State:      StateRevealed,
		Prediction: prediction(fake),
		Fake:       fake,
		Accuracy:   fmt.Sprintf("%.1f%%", value),
		Fill:       value,
		Band:       band,
		Background: band.Background(),
	}
}
