package network

// OutSize computes the spatial output size of a convolution or
// pooling operation along one axis using the standard convolution
// arithmetic floor((in + 2*padding - kernel) / stride) + 1.
func OutSize(in, kernel, stride, padding int) int {
	return (in+2*padding-kernel)/stride + 1
}

// OutShape computes the spatial output sizes of a convolution or
// pooling operation for every axis of a multi-dimensional input. The
// returned slice has the same length as in.
func OutShape(in []int, kernel, stride, padding int) []int {
	out := make([]int, len(in))
	for i, size := range in {
		out[i] = OutSize(size, kernel, stride, padding)
	}
	return out
}

// SamePadding computes the zero padding before and after one axis
// such that the output size is ceil(in / stride), the padding
// arithmetic used by "valid" output-size convolutions. Using the
// after value on both sides of the axis preserves that output size.
func SamePadding(in, kernel, stride int) (before, after int) {
	out := (in + stride - 1) / stride
	total := (out-1)*stride + kernel - in
	if total < 0 {
		total = 0
	}
	return total / 2, total - total/2
}
