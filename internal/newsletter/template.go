package newsletter

// newsletterTemplate is the HTML template for the weekly learning
// newsletter. It is embedded as a Go constant — no external file
// dependencies. The layout and palette follow the Streamlit brand color
// (#F63366) used across the newsletter.
const newsletterTemplate = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}} - 제{{.WeekNumber}}주차</title>
<style>
  body {
    font-family: 'Segoe UI', Arial, sans-serif;
    line-height: 1.5;
    color: #333;
    margin: 0;
    padding: 0;
    background-color: #f9f9f9;
  }
  .container { max-width: 800px; margin: 0 auto; background-color: #ffffff; }
  .content { padding: 20px; }
  .header {
    background-color: #F63366;
    color: white;
    padding: 15px 20px;
    text-align: left;
  }
  .title { margin: 0; font-size: 20px; font-weight: bold; }
  .issue-info { margin-top: 5px; font-size: 10pt; }
  .section {
    margin-bottom: 25px;
    border-bottom: 1px solid #eee;
    padding-bottom: 20px;
  }
  .section:last-child { border-bottom: none; }
  .section-title {
    color: #ffffff;
    font-size: 16px;
    font-weight: bold;
    margin-bottom: 10px;
    background-color: #F63366;
    padding: 8px 10px;
    border-radius: 4px;
  }
  .section-icon { margin-right: 8px; }
  h2, h3 {
    font-size: 16px;
    margin-bottom: 10px;
    color: #F63366;
    border-bottom: 1px solid #eee;
    padding-bottom: 5px;
  }
  h4 { font-size: 14px; margin-bottom: 5px; color: #333; }
  p, li { font-size: 10pt; margin: 0 0 8px; }
  ul { padding-left: 20px; margin-top: 5px; margin-bottom: 15px; }
  li { margin-bottom: 5px; }
  a { color: #F63366; text-decoration: none; }
  a:hover { text-decoration: underline; }
  .footer {
    background-color: #f1f1f1;
    padding: 10px;
    text-align: center;
    font-size: 10pt;
    color: #666;
  }
  .level-badge {
    display: inline-block;
    background-color: #F63366;
    color: white;
    font-size: 10pt;
    padding: 3px 8px;
    border-radius: 10px;
    margin-left: 8px;
  }
  .curriculum-overview {
    background-color: #f5f5ff;
    border-radius: 8px;
    padding: 15px;
    margin-bottom: 20px;
  }
  .curriculum-overview ul { margin-bottom: 0; }
  .materials-grid {
    display: grid;
    grid-template-columns: repeat(auto-fill, minmax(300px, 1fr));
    gap: 20px;
    margin-top: 15px;
    margin-bottom: 20px;
  }
  .material-card {
    border: 1px solid #eee;
    border-radius: 8px;
    padding: 15px;
    box-shadow: 0 2px 4px rgba(0,0,0,0.05);
  }
  .video-card { border-left: 4px solid #ff0000; }
  .doc-card { border-left: 4px solid #4285f4; }
  .card-header { display: flex; align-items: center; margin-bottom: 10px; }
  .card-icon { margin-right: 8px; font-size: 10pt; }
  .card-type {
    font-size: 9pt;
    color: #666;
    background-color: #f1f1f1;
    padding: 2px 6px;
    border-radius: 4px;
  }
  .card-title { font-size: 10pt; margin: 0 0 10px 0; line-height: 1.3; }
  .card-description {
    font-size: 10pt;
    color: #555;
    margin-bottom: 15px;
    line-height: 1.4;
  }
  .card-footer {
    font-size: 9pt;
    color: #666;
    border-top: 1px solid #eee;
    padding-top: 8px;
  }
  .card-source { font-style: italic; }
  .caution-box {
    background-color: #fff8f0;
    border-left: 4px solid #f0a030;
    border-radius: 4px;
    padding: 12px;
    font-size: 10pt;
  }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <div class="title">{{.Title}}</div>
    <div class="issue-info">제{{.WeekNumber}}주차 | {{.Date}}</div>
  </div>

  <div class="content">
    <div class="newsletter-intro">
      <h2>{{.WeekTitle}} <span class="level-badge">{{.Level}}</span></h2>
      <p>안녕하세요! 이번 주 뉴스레터에서는 <strong>{{.WeekTitle}}</strong>에 대해 다룹니다.
      주요 학습 주제와 유용한 자료들을 모아 보내드립니다.</p>

      <div class="curriculum-overview">
        <h3>이번 주 학습 주제</h3>
        <ul>
        {{range .Topics}}<li>{{.LocalName}} ({{.Name}})</li>
        {{end}}</ul>
      </div>
    </div>

    <div class="section">
      <div class="section-title"><span class="section-icon">📚</span>추천 학습 자료</div>
      {{range .TopicMaterials}}
      <h3>{{.Topic.LocalName}} ({{.Topic.Name}})</h3>
      <p>{{.Topic.Description}}</p>
      {{if .Cards}}
      <div class="materials-grid">
        {{range .Cards}}
        <div class="material-card {{.Class}}">
          <div class="card-header">
            <span class="card-icon">{{.Icon}}</span>
            <span class="card-type">{{.Kind}}</span>
          </div>
          <h4 class="card-title"><a href="{{.Link}}" target="_blank">{{.Title}}</a></h4>
          <p class="card-description">{{.Description}}</p>
          <div class="card-footer"><span class="card-source">{{.Origin}}</span></div>
        </div>
        {{end}}
      </div>
      {{else}}
      <p>이 주제에 대한 학습 자료를 찾을 수 없습니다.</p>
      {{end}}
      {{end}}
    </div>

    <div class="section">
      <div class="section-title"><span class="section-icon">💡</span>이번 주 학습 팁</div>
      <div class="section-container">{{.LearningTip}}</div>
    </div>

    <div class="section">
      <div class="section-title"><span class="section-icon">🔨</span>실습 프로젝트 아이디어</div>
      <div class="section-container">{{.ProjectIdea}}</div>
    </div>

    {{if .NewsDigest}}
    <div class="section">
      <div class="section-title"><span class="section-icon">📰</span>최신 스트림릿 소식</div>
      <div class="section-container">{{.NewsDigest}}</div>
    </div>
    {{end}}

    <div class="section">
      <div class="section-title"><span class="section-icon">❓</span>이번 주 Q&amp;A</div>
      <div class="section-container">{{.QA}}</div>
    </div>

    <div class="section">
      <div class="section-title"><span class="section-icon">⚠️</span>AI 활용 시 주의사항</div>
      <div class="caution-box">{{.UsageCaution}}</div>
    </div>
  </div>

  <div class="footer">
    <p>© {{.Year}} {{.Title}} | 이 뉴스레터는 자동 생성되었습니다.</p>
    <p>구독을 원하지 않으시면 답장으로 알려주세요.</p>
  </div>
</div>
</body>
</html>
`
