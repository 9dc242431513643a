// Package stat 提供画像估计所需的纯统计原语：均值/标准差、组合数、二项分布。
// 全部是无 I/O 的纯函数，稀疏/退化输入不报错，只返回退化值。
package stat

import "math"

// MeanStdDev 返回均值与标准差。
// 方差用 E[X²] − mean² 求得再开方；空切片返回 (0, 0)。
func MeanStdDev(values []float64) (mean, sd float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum, sumSq float64
	for _, v := range values {
		sum += v
		sumSq += v * v
	}
	n := float64(len(values))
	mean = sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0 // 浮点误差可能产生极小的负方差
	}
	return mean, math.Sqrt(variance)
}

// Comb 返回组合数 nCr。
// 乘法形式逐项约简，r 取对称侧较小者，因此 Comb(n, r) == Comb(n, n-r) 恒成立，
// 且中间值不会像阶乘那样溢出。参数非法时返回 0。
func Comb(n, r int) float64 {
	if n < 0 || r < 0 || r > n {
		return 0
	}
	if r > n-r {
		r = n - r
	}
	out := 1.0
	for i := 1; i <= r; i++ {
		out = out * float64(n-r+i) / float64(i)
	}
	return out
}

// BinomialPoint 返回单点概率 P(X == k)，X ~ B(trials, p)。
func BinomialPoint(k, trials int, p float64) float64 {
	if k < 0 || k > trials {
		return 0
	}
	return math.Pow(1-p, float64(trials-k)) * math.Pow(p, float64(k)) * Comb(trials, k)
}

// BinomialRange 返回闭区间概率 P(lower ≤ X ≤ upper)。
// lower == upper 时退化为单点概率；lower > upper 返回 0。
func BinomialRange(lower, upper, trials int, p float64) float64 {
	switch {
	case lower > upper:
		return 0
	case lower == upper:
		return BinomialPoint(lower, trials, p)
	}
	var total float64
	for k := lower; k <= upper; k++ {
		total += BinomialPoint(k, trials, p)
	}
	return total
}

// BinomialCDF 返回累积概率 P(X ≤ k)。
func BinomialCDF(k, trials int, p float64) float64 {
	return BinomialRange(0, k, trials, p)
}
