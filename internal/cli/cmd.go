package cli

func init() {
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(dailyCmd)
	rootCmd.AddCommand(retryMissedCmd)
	rootCmd.AddCommand(backfillCmd)
	rootCmd.AddCommand(checkGapsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(migrateArchiveCmd)
	rootCmd.AddCommand(migrateDBCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(versionCmd)
}
