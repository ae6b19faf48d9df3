package util

func ReverseG[T any](arr []T) {
	for i, j := 0, len(arr)-1; i < j; i, j = i+1, j-1 {
		arr[i], arr[j] = arr[j], arr[i]
	}
}

func AbsInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
