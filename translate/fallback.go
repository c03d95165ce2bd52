package translate

import "context"

// Fallback is the offline variant: a static per-language sample
// dictionary. Strings without a dictionary entry are returned unchanged
// (untranslated passthrough), never dropped.
type Fallback struct {
	dicts map[string]map[string]string
}

// NewFallback returns the fallback variant backed by the built-in
// sample dictionaries.
func NewFallback() *Fallback {
	return &Fallback{dicts: sampleDictionaries}
}

// Translate implements Translator. It never fails and never touches
// the network.
func (f *Fallback) Translate(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	dict := f.dicts[targetLang]
	out := make([]string, len(texts))
	for i, text := range texts {
		if translated, ok := dict[text]; ok && translated != "" {
			out[i] = translated
		} else {
			out[i] = text
		}
	}
	return out, nil
}

// sampleDictionaries holds the built-in translations used when no live
// provider is available. Only Korean ships with samples; other target
// languages pass everything through.
var sampleDictionaries = map[string]map[string]string{
	"ko": {
		"A powerful Copilot replacement that can suggest changes across multiple lines.": "여러 줄에 걸쳐 변경 사항을 제안할 수 있는 강력한 Copilot 대체품입니다.",
		"If on, none of your code will be stored by us.":                                 "켜면 귀하의 코드는 저희 측에 저장되지 않습니다.",
		"Enable or disable Cursor Tab suggestions in comments":                           "주석에서 Cursor Tab 제안 활성화 또는 비활성화",
		"Auto-scroll to bottom":                                                          "자동으로 맨 아래로 스크롤",
		"Allow Agent to run tools without asking for confirmation":                       "확인 요청 없이 에이전트가 도구를 실행하도록 허용",
		"Cursor Settings":        "Cursor 설정",
		"Account":                "계정",
		"Features":               "기능",
		"Models":                 "모델",
		"Rules":                  "규칙",
		"General":                "일반",
		"VS Code Import":         "VS Code 가져오기",
		"Appearance":             "외관",
		"Cursor Tab":             "Cursor 탭",
		"Chat":                   "채팅",
		"Tab to import necessary dependencies": "탭으로 필요한 종속성 가져오기",
		"Command allowlist":      "명령 허용 목록",
		"Delete file protection": "파일 삭제 보호",
		"Privacy mode":           "개인 정보 보호 모드",
		"Enable auto-run mode":   "자동 실행 모드 활성화",
	},
}
