// Package curriculum holds the fixed 8-week Streamlit study plan and maps
// calendar dates onto it. The plan repeats: after week 8 the cycle starts
// over from week 1.
package curriculum

import (
	"time"

	"github.com/minsoolab/learnletter/pkg/models"
)

// epoch is the first day of cycle week 1.
var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// TotalWeeks is the length of one curriculum cycle.
const TotalWeeks = 8

var weeks = []models.Week{
	{
		Number: 1,
		Level:  "초급",
		Title:  "스트림릿 첫 시작",
		Topics: []models.Topic{
			{Name: "Installation", LocalName: "설치 및 환경 설정", Description: "스트림릿 설치 및 기본 환경 구성"},
			{Name: "First App", LocalName: "첫 번째 앱 만들기", Description: "Hello World 앱 만들고 실행하기"},
			{Name: "Basic Elements", LocalName: "기본 요소", Description: "텍스트, 이미지 등 기본 UI 요소 사용법"},
		},
	},
	{
		Number: 2,
		Level:  "초급",
		Title:  "데이터 다루기",
		Topics: []models.Topic{
			{Name: "DataFrame", LocalName: "데이터프레임 표시", Description: "표 형태 데이터 표시와 스타일링"},
			{Name: "Data Loading", LocalName: "데이터 불러오기", Description: "CSV, Excel 파일 업로드와 읽기"},
			{Name: "Metrics", LocalName: "지표 표시", Description: "핵심 수치를 metric 위젯으로 보여주기"},
		},
	},
	{
		Number: 3,
		Level:  "초급",
		Title:  "차트와 시각화",
		Topics: []models.Topic{
			{Name: "Built-in Charts", LocalName: "기본 차트", Description: "line_chart, bar_chart 등 내장 차트 사용법"},
			{Name: "Plotly", LocalName: "플로틀리 연동", Description: "인터랙티브 시각화 라이브러리 연동"},
			{Name: "Maps", LocalName: "지도 시각화", Description: "위치 데이터를 지도 위에 표시하기"},
		},
	},
	{
		Number: 4,
		Level:  "중급",
		Title:  "위젯과 입력",
		Topics: []models.Topic{
			{Name: "Input Widgets", LocalName: "입력 위젯", Description: "버튼, 슬라이더, 셀렉트박스 사용법"},
			{Name: "Forms", LocalName: "폼 구성", Description: "여러 입력을 묶어 한 번에 제출하기"},
			{Name: "File Uploader", LocalName: "파일 업로드", Description: "사용자 파일을 받아 처리하기"},
		},
	},
	{
		Number: 5,
		Level:  "중급",
		Title:  "레이아웃과 구조",
		Topics: []models.Topic{
			{Name: "Layout", LocalName: "레이아웃 구성", Description: "컬럼, 사이드바, 탭, 컨테이너 활용"},
			{Name: "Multipage", LocalName: "멀티페이지 앱", Description: "여러 페이지로 앱 구조화하기"},
			{Name: "Theming", LocalName: "테마 설정", Description: "색상과 폰트 커스터마이징"},
		},
	},
	{
		Number: 6,
		Level:  "중급",
		Title:  "상태와 캐싱",
		Topics: []models.Topic{
			{Name: "Session State", LocalName: "세션 상태", Description: "재실행 사이에 값 유지하기"},
			{Name: "Caching", LocalName: "캐싱", Description: "cache_data, cache_resource로 성능 개선"},
			{Name: "Callbacks", LocalName: "콜백", Description: "위젯 변경에 반응하는 콜백 함수"},
		},
	},
	{
		Number: 7,
		Level:  "고급",
		Title:  "외부 연동",
		Topics: []models.Topic{
			{Name: "API Integration", LocalName: "API 연동", Description: "외부 REST API 호출과 결과 표시"},
			{Name: "Database", LocalName: "데이터베이스 연결", Description: "st.connection으로 DB 질의하기"},
			{Name: "Secrets", LocalName: "시크릿 관리", Description: "API 키를 안전하게 다루기"},
		},
	},
	{
		Number: 8,
		Level:  "고급",
		Title:  "배포와 운영",
		Topics: []models.Topic{
			{Name: "Deployment", LocalName: "배포", Description: "Community Cloud와 Docker로 배포하기"},
			{Name: "Performance", LocalName: "성능 최적화", Description: "느린 앱 진단과 개선"},
			{Name: "Sharing", LocalName: "공유와 권한", Description: "앱 공유 설정과 접근 제어"},
		},
	},
}

// Week returns the curriculum entry for week n. Out-of-range numbers fall
// back to week 1 so a caller always gets usable content.
func Week(n int) models.Week {
	if n < 1 || n > TotalWeeks {
		return weeks[0]
	}
	return weeks[n-1]
}

// All returns the full cycle in order.
func All() []models.Week {
	out := make([]models.Week, len(weeks))
	copy(out, weeks)
	return out
}

// WeekAt returns the curriculum entry active at the given time, counting
// whole weeks since the epoch and wrapping modulo the cycle length. Times
// before the epoch map to week 1.
func WeekAt(t time.Time) models.Week {
	days := int(t.Sub(epoch).Hours() / 24)
	if days < 0 {
		return weeks[0]
	}
	return weeks[(days/7)%TotalWeeks]
}

// CurrentWeek returns the curriculum entry active today.
func CurrentWeek() models.Week {
	return WeekAt(time.Now())
}
