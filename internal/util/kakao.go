package util

import "strings"

const (
	KakaoSeeMorePadding = 500
	KakaoZeroWidthSpace = "​"
)

// SeeMore 는 header 만 미리보기에 노출하고 body 는 카카오톡 '전체보기' 뒤로 접는다.
// body 첫 줄이 header 와 같으면 중복을 제거한다.
func SeeMore(header, body string) string {
	header = strings.TrimSpace(header)
	body = stripLeadingHeader(body, header)
	if strings.TrimSpace(body) == "" {
		return header
	}

	var builder strings.Builder
	builder.Grow(len(header) + len(body) + KakaoSeeMorePadding*len(KakaoZeroWidthSpace) + 1)
	builder.WriteString(header)
	builder.WriteString(strings.Repeat(KakaoZeroWidthSpace, KakaoSeeMorePadding))
	if !strings.HasPrefix(body, "\n") {
		builder.WriteByte('\n')
	}
	builder.WriteString(body)
	return builder.String()
}

func stripLeadingHeader(text, header string) string {
	if header == "" {
		return text
	}
	for _, candidate := range []string{header + "\r\n", header + "\n", header} {
		if strings.HasPrefix(text, candidate) {
			return strings.TrimLeft(strings.TrimPrefix(text, candidate), "\r\n")
		}
	}
	return text
}
