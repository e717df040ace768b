package forecast

import (
	"math"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/pipeline"
)

// featureVector календарные признаки одного дня: свободный член, индекс
// тренда, день недели, день месяца, номер месяца
func featureVector(date time.Time, trend int) []float64 {
	return []float64{
		1,
		float64(trend),
		float64(date.Weekday()),
		float64(date.Day()),
		float64(int(date.Month())),
	}
}

// regressionForecast строит линейную регрессию ряда по календарным
// признакам методом наименьших квадратов и экстраполирует ее на горизонт.
// Вторым значением сообщает, удалось ли решить систему: история внутри
// одного месяца делает признак месяца коллинеарным свободному члену.
func regressionForecast(history []pipeline.TimeBucket, last time.Time, horizon int) ([]Point, bool) {
	rows := make([][]float64, len(history))
	target := make([]float64, len(history))
	for i, b := range history {
		rows[i] = featureVector(b.Date, i)
		target[i] = b.Value
	}

	beta, ok := leastSquares(rows, target)
	if !ok {
		return nil, false
	}

	out := make([]Point, 0, horizon)
	for i := 1; i <= horizon; i++ {
		date := last.AddDate(0, 0, i)
		features := featureVector(date, len(history)-1+i)
		value := 0.0
		for j, f := range features {
			value += beta[j] * f
		}
		out = append(out, Point{Date: date, Value: value})
	}
	return out, true
}

// leastSquares решает нормальные уравнения X'X b = X'y гауссовым
// исключением с частичным выбором ведущего элемента
func leastSquares(rows [][]float64, target []float64) ([]float64, bool) {
	if len(rows) == 0 {
		return nil, false
	}
	n := len(rows[0])

	// X'X и X'y
	a := make([][]float64, n)
	b := make([]float64, n)
	for i := 0; i < n; i++ {
		a[i] = make([]float64, n)
	}
	for k, row := range rows {
		for i := 0; i < n; i++ {
			b[i] += row[i] * target[k]
			for j := 0; j < n; j++ {
				a[i][j] += row[i] * row[j]
			}
		}
	}

	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-10 {
			return nil, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < n; r++ {
			factor := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}

	beta := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := b[i]
		for j := i + 1; j < n; j++ {
			sum -= a[i][j] * beta[j]
		}
		beta[i] = sum / a[i][i]
	}
	return beta, true
}
