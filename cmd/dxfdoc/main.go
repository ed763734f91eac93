package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ncruces/zenity"
	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"
	"github.com/zooyer/golib/xos"

	"github.com/zooyer/dxfdoc"
	"github.com/zooyer/dxfdoc/core"
)

var version = "dev"

// 经文件选择框进入即双击/拖拽启动，退出前留住控制台
var interactive bool

// pickFile 没给文件参数时弹文件选择框（拖拽/双击场景）
func pickFile(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	interactive = true
	return zenity.SelectFile(
		zenity.Title("选择 DXF 文件"),
		zenity.FileFilter{Name: "DXF", Patterns: []string{"*.dxf"}},
	)
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "打印文档概要（版本、表、块、实体统计）",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename, err := pickFile(args)
			if err != nil {
				return err
			}
			doc, log, err := dxfdoc.RecoverFile(filename)
			if err != nil {
				return err
			}

			fmt.Println("file:    ", filename)
			fmt.Println("version: ", doc.Version(), doc.Version().Release())
			fmt.Println("layers:  ", doc.Tables.Layers.Len())
			fmt.Println("blocks:  ", len(doc.Blocks()))
			fmt.Println("model:   ", doc.Modelspace().Len(), "entities")
			fmt.Println("paper:   ", doc.Paperspace().Len(), "entities")
			fmt.Println("objects: ", len(doc.Objects()))
			if n := len(log.Entries()); n > 0 {
				fmt.Println("issues:  ", n, "(run audit for details)")
			}
			return nil
		},
	}
}

func auditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit [file]",
		Short: "审计并报告文档问题",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename, err := pickFile(args)
			if err != nil {
				return err
			}
			_, log, err := dxfdoc.RecoverFile(filename)
			if err != nil {
				return err
			}
			if len(log.Entries()) == 0 {
				fmt.Println("ok: no issues found")
				return nil
			}
			fmt.Print(log.String())
			fmt.Printf("%d repaired, %d fatal\n", len(log.Fixes()), len(log.Errors()))
			if log.HasFatalErrors() {
				return fmt.Errorf("document has unrecoverable errors")
			}
			return nil
		},
	}
}

func convertCmd() *cobra.Command {
	var target string
	var out string
	var downgrade bool
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "读入、修复并按目标版本另存",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename, err := pickFile(args)
			if err != nil {
				return err
			}
			doc, log, err := dxfdoc.RecoverFile(filename)
			if err != nil {
				return err
			}
			if log.HasFatalErrors() {
				return fmt.Errorf("document has unrecoverable errors:\n%s", log.String())
			}

			if out == "" {
				out = strings.TrimSuffix(filename, ".dxf") + ".out.dxf"
			}
			file, err := os.Create(out)
			if err != nil {
				return err
			}
			defer file.Close()

			opts := dxfdoc.SaveOptions{AllowDowngrade: downgrade}
			if target != "" {
				opts.Version = core.Version(strings.ToUpper(target))
			}
			if err := doc.Write(file, opts); err != nil {
				return err
			}
			logger.Verbose("converted", filename, "->", out)
			fmt.Println("written:", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "目标版本，如 AC1015")
	cmd.Flags().StringVarP(&out, "out", "o", "", "输出文件，缺省为 <file>.out.dxf")
	cmd.Flags().BoolVar(&downgrade, "downgrade", false, "允许丢弃目标版本不支持的内容")
	return cmd
}

func queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <file> <expr>",
		Short: "按查询表达式列出实体，如 'LINE CIRCLE[layer==\"0\"]'",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := dxfdoc.RecoverFile(args[0])
			if err != nil {
				return err
			}
			found, err := doc.Query(args[1])
			if err != nil {
				return err
			}
			for _, e := range found {
				layer := ""
				if base := e.Base(); base != nil {
					layer = base.Layer()
				}
				fmt.Printf("%-8s %-12s layer=%s\n", e.Handle(), e.Type(), layer)
			}
			fmt.Println(len(found), "entities")
			return nil
		},
	}
}

func main() {
	root := &cobra.Command{
		Use:           "dxfdoc",
		Short:         "DXF 文档检查与转换工具",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if ok, _ := cmd.Flags().GetBool("verbose"); ok {
				logger.SetLogLevel(logger.LogLevelVerbose)
			}
		},
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "打印装载与修复细节")
	root.AddCommand(infoCmd(), auditCmd(), convertCmd(), queryCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "打印版本",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", cmd.Root().Name(), version)
		},
	})

	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	if interactive {
		xos.PauseExit()
	}
	if err != nil {
		os.Exit(1)
	}
}
