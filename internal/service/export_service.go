package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/jhappydev/gongsa-server/internal/model"
	"github.com/jhappydev/gongsa-server/internal/repository"
	pkgerrors "github.com/jhappydev/gongsa-server/pkg/errors"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = pkgerrors.Transient("could not generate export file", nil)

// 日历中学习时段的默认开始时刻
const calendarStartHour = 9

// ExportService 导出业务接口
//
// 设计说明：
//   - 成员排行导出为 Excel (.xlsx)，仅小组成员可导出
//   - 小组学习日历导出为 iCalendar (.ics)：每天一个 min_study_hour 时长的学习时段，重复至到期日
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportRanking 导出成员学习时长排行
	ExportRanking(ctx context.Context, groupUID, userUID int64) (*bytes.Buffer, string, error)
	// ExportCalendar 导出小组学习日历
	ExportCalendar(ctx context.Context, groupUID int64) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportRanking 导出成员排行为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "排行"
//   - 第 1 行：小组名称（合并单元格）
//   - 第 2 行表头：排名 | 昵称 | 学习状态 | 累计学习时长
//   - 数据行按累计时长降序，与成员列表接口排名一致

func (s *exportService) ExportRanking(ctx context.Context, groupUID, userUID int64) (*bytes.Buffer, string, error) {
	// 1. 成员校验
	if err := requireMember(ctx, s.repo, s.logger, groupUID, userUID); err != nil {
		return nil, "", err
	}
	group, err := s.repo.StudyGroup.GetByID(ctx, groupUID)
	if err != nil {
		return nil, "", storageFailure(s.logger, err, "查询小组失败", zap.Int64("groupUID", groupUID))
	}

	// 2. 成员与学习记录
	members, err := s.repo.GroupMember.ListByGroup(ctx, groupUID)
	if err != nil {
		return nil, "", storageFailure(s.logger, err, "查询小组成员失败", zap.Int64("groupUID", groupUID))
	}
	sessions, err := s.repo.StudyMember.ListByGroup(ctx, groupUID)
	if err != nil {
		return nil, "", storageFailure(s.logger, err, "查询学习记录失败", zap.Int64("groupUID", groupUID))
	}
	ranking := rankMembers(members, sessions)

	// 3. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "排行"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 20)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 16)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", group.Name)
	f.MergeCell(sheetName, "A1", "D1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	for i, h := range []string{"排名", "昵称", "学习状态", "累计学习时长"} {
		f.SetCellValue(sheetName, cell(colName(i), row), h)
	}
	f.SetCellStyle(sheetName, "A2", "D2", headerStyle)

	// 数据行
	row = 3
	for _, m := range ranking {
		f.SetCellValue(sheetName, cell("A", row), m.Ranking)
		f.SetCellValue(sheetName, cell("B", row), m.Nickname)
		f.SetCellValue(sheetName, cell("C", row), m.StudyStatus)
		f.SetCellValue(sheetName, cell("D", row), m.TotalStudyTime)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Int64("groupUID", groupUID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, fmt.Sprintf("ranking_%d.xlsx", groupUID), nil
}

// ═══════════════════════════════════════════════════════════
// ExportCalendar 导出小组学习日历
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportCalendar(ctx context.Context, groupUID int64) (*bytes.Buffer, string, error) {
	group, err := s.repo.StudyGroup.GetByID(ctx, groupUID)
	if err != nil {
		if isNotFound(err) {
			return nil, "", ErrGroupNotFound
		}
		return nil, "", storageFailure(s.logger, err, "查询小组失败", zap.Int64("groupUID", groupUID))
	}

	buf := bytes.NewBufferString(buildStudyCalendar(group).Serialize())
	return buf, fmt.Sprintf("group_%d.ics", groupUID), nil
}

// buildStudyCalendar 从小组创建当天起每日重复，直到到期时间
func buildStudyCalendar(group *model.StudyGroup) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//gongsa//study group//KO")
	cal.SetXWRCalName(group.Name)

	created := group.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	start := time.Date(created.Year(), created.Month(), created.Day(), calendarStartHour, 0, 0, 0, created.Location())
	end := start.Add(time.Duration(group.MinStudyHour) * time.Hour)

	event := cal.AddEvent(fmt.Sprintf("group-%d@gongsa", group.UID))
	event.SetDtStampTime(created)
	event.SetStartAt(start)
	event.SetEndAt(end)
	event.SetSummary(group.Name)
	event.SetDescription(fmt.Sprintf("%d hour(s) of study", group.MinStudyHour))
	event.SetProperty(ics.ComponentPropertyRrule,
		"FREQ=DAILY;UNTIL="+group.ExpiredAt.UTC().Format("20060102T150405Z"))

	return cal
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", strings.ToUpper(col), row)
}
