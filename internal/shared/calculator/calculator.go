// Package calculator は価格シリーズに対する統計計算を提供します。
// 入出力はプレーンなfloat64スライスで、永続化や銘柄の概念には依存しません。
package calculator

import (
	"errors"
	"math"
)

// ErrInsufficientData は計算に必要なデータ点数が足りない場合に返されます。
var ErrInsufficientData = errors.New("insufficient data points")

// SMA はシリーズ末尾window個の単純移動平均を返します。
// len(values) < window または window <= 0 の場合はErrInsufficientDataです。
func SMA(values []float64, window int) (float64, error) {
	if window <= 0 || len(values) < window {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for _, v := range values[len(values)-window:] {
		sum += v
	}
	return sum / float64(window), nil
}

// SMASeries はシリーズ全体のwindow日移動平均を返します。
// 結果のi番目はvalues[i+window-1]までのwindow個の平均に対応します。
func SMASeries(values []float64, window int) ([]float64, error) {
	if window <= 0 || len(values) < window {
		return nil, ErrInsufficientData
	}

	out := make([]float64, 0, len(values)-window+1)
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out, nil
}

// LinearFit はy値に対して最小二乗法で直線をあてはめます。x値はインデックス(0..n-1)です。
// 戻り値は傾き・切片・決定係数R²で、yの分散がゼロの場合はR²=1とします。
// 2点未満ではErrInsufficientDataです。
func LinearFit(ys []float64) (slope, intercept, r2 float64, err error) {
	n := len(ys)
	if n < 2 {
		return 0, 0, 0, ErrInsufficientData
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	slope = (fn*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / fn

	meanY := sumY / fn
	var ssRes, ssTot float64
	for i, y := range ys {
		fit := intercept + slope*float64(i)
		ssRes += (y - fit) * (y - fit)
		ssTot += (y - meanY) * (y - meanY)
	}
	if ssTot == 0 {
		// 定数シリーズは完全にあてはまる
		r2 = 1
	} else {
		r2 = 1 - ssRes/ssTot
	}
	return slope, intercept, r2, nil
}

// DailyReturns は隣接する値の単純リターン (v[i]-v[i-1])/v[i-1] を返します。
// 除数がゼロの要素のリターンは0とします。
func DailyReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, (values[i]-prev)/prev)
	}
	return out
}

// Mean は算術平均を返します。空スライスでは0です。
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev は母標準偏差を返します。空スライスでは0です。
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var ss float64
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(values)))
}
